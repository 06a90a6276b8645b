package ui

import "github.com/PuerkitoBio/goquery"

// SubmitEvent is published when a form is submitted. Handlers may cancel it.
type SubmitEvent struct {
	Form      *goquery.Selection
	prevented bool
}

func (e *SubmitEvent) PreventDefault() {
	e.prevented = true
}

func (e *SubmitEvent) DefaultPrevented() bool {
	return e.prevented
}

// FieldEvent carries the field of an input or blur event.
type FieldEvent struct {
	Target *goquery.Selection
}

type ClickEvent struct {
	Target *goquery.Selection
}

// ScrollEvent reports the horizontal scroll state of a scrollable element. Zero widths
// keep the ones already known for the element.
type ScrollEvent struct {
	Target      *goquery.Selection
	ScrollLeft  int
	ScrollWidth int
	ClientWidth int
}
