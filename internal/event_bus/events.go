package event_bus

// Page event types, named after the browser events they stand in for.
const (
	Submit EventType = "submit"
	Input  EventType = "input"
	Blur   EventType = "blur"
	Click  EventType = "click"
	Scroll EventType = "scroll"
	Resize EventType = "resize"
)

// WindowResized is the payload of a Resize event.
type WindowResized struct {
	Width  int
	Height int
}
