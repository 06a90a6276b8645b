package ui

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

const (
	DefaultToastLifetime = 5 * time.Second
	toastExitDuration    = 300 * time.Millisecond

	toastSelector = ".toast-notification"
	lifetimeAttr  = "data-lifetime"
	toastTimerKey = "toast"
	toastExitKey  = "toast-exit"
	exitClass     = "toast-exit"
)

// icons are Feather icon names.
var icons = map[Severity]string{
	Info:    "info",
	Success: "check-circle",
	Error:   "alert-circle",
}

// ParseSeverity maps flash categories to a severity; anything unknown is Info.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case Success, Error:
		return Severity(s)
	case "danger", "warning":
		return Error
	}
	return Info
}

// Notifier shows toasts on a page. A page shows at most one toast; showing a new one
// replaces the previous toast, whichever notifier showed it.
type Notifier struct {
	page     *Page
	lifetime time.Duration
}

func NewNotifier(page *Page, lifetime time.Duration) *Notifier {
	if lifetime <= 0 {
		lifetime = DefaultToastLifetime
	}
	return &Notifier{page: page, lifetime: lifetime}
}

// Show replaces any visible toast with a new one and returns its element id. The toast
// carries its lifetime in milliseconds for the browser to dismiss it once the page is sent.
func (n *Notifier) Show(message string, severity Severity) string {
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	return n.show(message, severity)
}

// show must be called with the page lock held.
func (n *Notifier) show(message string, severity Severity) string {
	p := n.page
	p.doc.Find(toastSelector).Remove()
	p.cancel(toastExitKey)

	icon, ok := icons[severity]
	if !ok {
		severity, icon = Info, icons[Info]
	}
	id := "toast-" + uuid.NewString()
	body := p.doc.Find("body")
	body.AppendHtml(fmt.Sprintf(
		`<div id="%s" class="toast-notification toast-%s" role="alert" %s="%d">`+
			`<i data-feather="%s" class="toast-icon"></i>`+
			`<span class="toast-message"></span>`+
			`<button type="button" class="toast-close" aria-label="Close">&times;</button>`+
			`</div>`, id, severity, lifetimeAttr, n.lifetime.Milliseconds(), icon))
	p.doc.Find("#" + id + " .toast-message").SetText(message)

	p.schedule(toastTimerKey, n.lifetime, func() {
		toast := p.doc.Find("#" + id)
		toast.AddClass(exitClass)
		p.schedule(toastExitKey, toastExitDuration, func() {
			p.doc.Find("#" + id).Remove()
		})
	})
	log.Debugf("toast %s shown: %s", severity, message)
	return id
}

// dismiss removes a toast immediately. Must be called with the page lock held.
func (n *Notifier) dismiss(id string) {
	p := n.page
	p.doc.Find("#" + id).Remove()
	p.cancel(toastTimerKey)
	p.cancel(toastExitKey)
}
