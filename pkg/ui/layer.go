package ui

import (
	"sync"
	"time"

	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/pkg/currency"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	ToastLifetime  time.Duration
	SubmitFallback time.Duration
	// Formatter reads and rewrites amount fields. Defaults to en-US dollars.
	Formatter *currency.Formatter
}

// Layer wires the generic page affordances: submit guard, currency fields, date
// defaults, toasts and responsive table cues.
type Layer struct {
	opts Options
}

func NewLayer(opts Options) *Layer {
	if opts.ToastLifetime <= 0 {
		opts.ToastLifetime = DefaultToastLifetime
	}
	if opts.SubmitFallback <= 0 {
		opts.SubmitFallback = DefaultSubmitFallback
	}
	if opts.Formatter == nil {
		opts.Formatter = currency.MustFormatter("en-US", "USD")
	}
	return &Layer{opts: opts}
}

// Notifier returns a notifier for page using the layer's toast lifetime.
func (l *Layer) Notifier(page *Page) *Notifier {
	return NewNotifier(page, l.opts.ToastLifetime)
}

// Init subscribes every handler on the page's bus and applies the initial document
// state. The returned teardown unsubscribes them and stops pending timers; it may be
// called more than once.
func (l *Layer) Init(page *Page) (teardown func()) {
	notifier := l.Notifier(page)
	bus := page.Bus()

	page.mu.Lock()
	defer page.mu.Unlock()

	var unsubscribers []func()
	guard := &formGuard{page: page, notifier: notifier, fallback: l.opts.SubmitFallback}
	unsubscribers = append(unsubscribers, guard.register(bus))
	unsubscribers = append(unsubscribers, currencyInput{formatter: l.opts.Formatter}.register(bus)...)
	scroll := tableScroll{}
	unsubscribers = append(unsubscribers, scroll.register(bus))
	unsubscribers = append(unsubscribers, event_bus.SubscribeTyped[*ClickEvent](bus, event_bus.Click,
		func(e event_bus.EventT[*ClickEvent]) error {
			if !e.Data.Target.Is(".toast-close") {
				return nil
			}
			if id, ok := e.Data.Target.Closest(toastSelector).Attr("id"); ok {
				notifier.dismiss(id)
			}
			return nil
		}))

	applyDateDefaults(page)
	scroll.init(page)
	log.Debugf("ui layer initialised with %d handlers", len(unsubscribers))

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsubscribe := range unsubscribers {
				unsubscribe()
			}
			page.mu.Lock()
			page.stopTimers()
			page.mu.Unlock()
		})
	}
}

// Flash shows a toast for a message passed along by the previous request, if any.
func (l *Layer) Flash(page *Page, message, severity string) {
	if isBlank(message) {
		return
	}
	l.Notifier(page).Show(message, ParseSeverity(severity))
}
