package event_bus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType is an identifier for page events (submit, input, blur, resize...).
type EventType string

// Event is what listeners receive. Data is the event-specific payload, e.g. a
// *ui.SubmitEvent for Submit.
type Event struct {
	ctx  context.Context
	Type EventType
	Data any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{ctx: ctx, Type: eventType, Data: data}
}

// Context is the context of the request the page is rendered for.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is an Event whose payload has already been asserted to T.
type EventT[T any] struct {
	Event
	Data T
}

type listener struct {
	id uint64
	fn func(Event) error
}

// EventBus dispatches page events to their listeners synchronously, in the order the
// listeners were added, the way listeners attached to one DOM target fire. It is safe
// for concurrent use; a listener may add or remove listeners while an event is being
// dispatched, which only affects later dispatches.
type EventBus struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	nextID    uint64
}

func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventType][]listener)}
}

// Subscribe adds a listener for eventType and returns the function that removes it.
// Removing twice is a no-op.
func (eb *EventBus) Subscribe(eventType EventType, fn func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	eb.listeners[eventType] = append(eb.listeners[eventType], listener{id: id, fn: fn})
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		remaining := slices.DeleteFunc(eb.listeners[eventType], func(l listener) bool { return l.id == id })
		if len(remaining) == 0 {
			delete(eb.listeners, eventType)
			return
		}
		eb.listeners[eventType] = remaining
	}
}

// SubscribeTyped adds a listener that only sees events whose payload is a T. Events
// with another payload, or none, are skipped.
//
//	unsub := event_bus.SubscribeTyped[*ui.SubmitEvent](bus, event_bus.Submit,
//	    func(e event_bus.EventT[*ui.SubmitEvent]) error {
//	        if formIsInvalid(e.Data.Form) {
//	            e.Data.PreventDefault()
//	        }
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, fn func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: %s listener wants %T, got %T", eventType, *new(T), e.Data)
			return nil
		}
		return fn(EventT[T]{Event: e, Data: payload})
	})
}

// Publish runs every listener of e.Type. A failing or panicking listener does not stop
// the ones after it; their errors are joined into the returned error. Nothing runs when
// the event's context is already done.
func (eb *EventBus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s not dispatched: %w", e.Type, err)
	}

	eb.mu.RLock()
	listeners := slices.Clone(eb.listeners[e.Type])
	eb.mu.RUnlock()

	var errs []error
	for _, l := range listeners {
		if err := l.call(e); err != nil {
			log.Errorf("EventBus: listener %d for %s failed: %v", l.id, e.Type, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d listener(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func (l listener) call(e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return l.fn(e)
}

// Subscribers returns the number of listeners registered for eventType.
func (eb *EventBus) Subscribers(eventType EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.listeners[eventType])
}
