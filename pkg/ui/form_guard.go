package ui

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klokku/fintrack/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSubmitFallback = 3 * time.Second
	RequiredFieldsMessage = "Please fill in all required fields."

	busyLabel      = `<span class="spinner-border spinner-border-sm me-2" role="status"></span>Processing...`
	busyInputLabel = "Processing..."
	originalAttr   = "data-original-label"
)

type formGuard struct {
	page     *Page
	notifier *Notifier
	fallback time.Duration
}

func (g *formGuard) register(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped[*SubmitEvent](bus, event_bus.Submit, func(e event_bus.EventT[*SubmitEvent]) error {
		g.onSubmit(e.Data)
		return nil
	})
}

func (g *formGuard) onSubmit(e *SubmitEvent) {
	form := e.Form
	control := form.Find(`button[type="submit"], input[type="submit"]`).First()
	if control.Length() > 0 {
		disable(control)
	}

	var missing int
	form.Find("[required]").Each(func(_ int, field *goquery.Selection) {
		blank := isBlank(fieldValue(field))
		markInvalid(field, blank)
		if blank {
			missing++
		}
	})

	if missing > 0 {
		e.PreventDefault()
		g.notifier.show(RequiredFieldsMessage, Error)
		if control.Length() > 0 {
			restore(control)
		}
		log.Debugf("form %s blocked: %d required field(s) empty", describe(form), missing)
		return
	}

	if control.Length() > 0 {
		g.page.schedule(fallbackKey(control), g.fallback, func() {
			restore(control)
		})
	}
}

// disable swaps the control's label for the busy indicator. A control that is already
// busy keeps the label saved the first time.
func disable(control *goquery.Selection) {
	if _, busy := control.Attr(originalAttr); !busy {
		if goquery.NodeName(control) == "input" {
			control.SetAttr(originalAttr, control.AttrOr("value", ""))
		} else {
			label, _ := control.Html()
			control.SetAttr(originalAttr, label)
		}
	}
	control.SetAttr("disabled", "")
	if goquery.NodeName(control) == "input" {
		control.SetAttr("value", busyInputLabel)
	} else {
		control.SetHtml(busyLabel)
	}
}

// restore re-enables the control with its original label.
func restore(control *goquery.Selection) {
	label, ok := control.Attr(originalAttr)
	if !ok {
		control.RemoveAttr("disabled")
		return
	}
	if goquery.NodeName(control) == "input" {
		control.SetAttr("value", label)
	} else {
		control.SetHtml(label)
	}
	control.RemoveAttr(originalAttr)
	control.RemoveAttr("disabled")
}

func fallbackKey(control *goquery.Selection) string {
	return fmt.Sprintf("submit-fallback-%p", control.Get(0))
}

func describe(form *goquery.Selection) string {
	if id, ok := form.Attr("id"); ok {
		return "#" + id
	}
	return form.AttrOr("action", "form")
}
