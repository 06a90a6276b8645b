package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Page is a live document with its event bus and clock. Event handlers and timer
// callbacks run one at a time, holding the page lock, the way a browser runs them on
// its single event loop.
type Page struct {
	mu     sync.Mutex
	doc    *goquery.Document
	bus    *event_bus.EventBus
	clock  utils.Clock
	timers map[string]*pageTimer
	closed bool
}

type pageTimer struct {
	timer utils.Timer
}

func NewPage(doc *goquery.Document, bus *event_bus.EventBus, clock utils.Clock) *Page {
	return &Page{doc: doc, bus: bus, clock: clock, timers: map[string]*pageTimer{}}
}

// ParsePage reads an HTML document into a new page.
func ParsePage(r io.Reader, bus *event_bus.EventBus, clock utils.Clock) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return NewPage(doc, bus, clock), nil
}

func (p *Page) Bus() *event_bus.EventBus {
	return p.bus
}

func (p *Page) Clock() utils.Clock {
	return p.clock
}

// Find runs a selector against the document under the page lock.
func (p *Page) Find(selector string) *goquery.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find(selector)
}

// Dispatch delivers an event to the page's handlers in the order they subscribed.
func (p *Page) Dispatch(ctx context.Context, eventType event_bus.EventType, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	return p.bus.Publish(event_bus.NewEvent(ctx, eventType, payload))
}

// Submit dispatches a submit event for the form matched by selector and reports whether
// a handler cancelled it.
func (p *Page) Submit(ctx context.Context, selector string) (cancelled bool, err error) {
	form := p.Find(selector)
	if form.Length() == 0 {
		return false, fmt.Errorf("no form matches %q", selector)
	}
	event := &SubmitEvent{Form: form.First()}
	if err := p.Dispatch(ctx, event_bus.Submit, event); err != nil {
		return event.DefaultPrevented(), err
	}
	return event.DefaultPrevented(), nil
}

// Type replaces the value of the field matched by selector and dispatches an input event.
func (p *Page) Type(ctx context.Context, selector, value string) error {
	field := p.Find(selector).First()
	if field.Length() == 0 {
		return fmt.Errorf("no field matches %q", selector)
	}
	p.mu.Lock()
	setFieldValue(field, value)
	p.mu.Unlock()
	return p.Dispatch(ctx, event_bus.Input, &FieldEvent{Target: field})
}

func (p *Page) Blur(ctx context.Context, selector string) error {
	field := p.Find(selector).First()
	if field.Length() == 0 {
		return fmt.Errorf("no field matches %q", selector)
	}
	return p.Dispatch(ctx, event_bus.Blur, &FieldEvent{Target: field})
}

func (p *Page) Click(ctx context.Context, selector string) error {
	target := p.Find(selector).First()
	if target.Length() == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return p.Dispatch(ctx, event_bus.Click, &ClickEvent{Target: target})
}

// Scroll moves the element matched by selector to the given horizontal offset.
func (p *Page) Scroll(ctx context.Context, selector string, left int) error {
	target := p.Find(selector).First()
	if target.Length() == 0 {
		return fmt.Errorf("no element matches %q", selector)
	}
	return p.Dispatch(ctx, event_bus.Scroll, &ScrollEvent{Target: target, ScrollLeft: left})
}

// HTML serialises the document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

// Close stops every pending timer. Events dispatched afterwards are dropped.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.stopTimers()
}

// Locked runs fn while holding the page lock, for callers that change the document
// outside of event handlers.
func (p *Page) Locked(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

// schedule runs fn after d, replacing any timer pending under the same key.
// Must be called with the page lock held.
func (p *Page) schedule(key string, d time.Duration, fn func()) {
	p.cancel(key)
	entry := &pageTimer{}
	entry.timer = p.clock.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed || p.timers[key] != entry {
			return
		}
		delete(p.timers, key)
		fn()
	})
	p.timers[key] = entry
}

// cancel stops the timer pending under key. Must be called with the page lock held.
func (p *Page) cancel(key string) {
	if entry, ok := p.timers[key]; ok {
		entry.timer.Stop()
		delete(p.timers, key)
	}
}

func (p *Page) stopTimers() {
	for key := range p.timers {
		p.cancel(key)
	}
	log.Debug("page timers stopped")
}

// PendingTimers returns the number of scheduled timers that have not fired yet.
func (p *Page) PendingTimers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}
