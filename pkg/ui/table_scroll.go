package ui

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/klokku/fintrack/internal/event_bus"
)

const (
	TableResponsiveSelector = ".table-responsive"

	shadowLeft  = "scroll-shadow-left"
	shadowRight = "scroll-shadow-right"

	scrollLeftAttr  = "data-scroll-left"
	scrollWidthAttr = "data-scroll-width"
	clientWidthAttr = "data-client-width"
)

type tableScroll struct{}

func (t tableScroll) register(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped[*ScrollEvent](bus, event_bus.Scroll, func(e event_bus.EventT[*ScrollEvent]) error {
		t.onScroll(e.Data)
		return nil
	})
}

// init computes the cues of every wrapper from its data-scroll-* attributes.
func (t tableScroll) init(p *Page) {
	p.doc.Find(TableResponsiveSelector).Each(func(_ int, wrapper *goquery.Selection) {
		updateScrollCues(wrapper)
	})
}

func (t tableScroll) onScroll(e *ScrollEvent) {
	if !e.Target.Is(TableResponsiveSelector) {
		return
	}
	e.Target.SetAttr(scrollLeftAttr, strconv.Itoa(e.ScrollLeft))
	if e.ScrollWidth > 0 {
		e.Target.SetAttr(scrollWidthAttr, strconv.Itoa(e.ScrollWidth))
	}
	if e.ClientWidth > 0 {
		e.Target.SetAttr(clientWidthAttr, strconv.Itoa(e.ClientWidth))
	}
	updateScrollCues(e.Target)
}

// updateScrollCues shows the left shadow when content is hidden on the left and the
// right shadow when content is hidden on the right.
func updateScrollCues(wrapper *goquery.Selection) {
	left := intAttr(wrapper, scrollLeftAttr)
	scrollWidth := intAttr(wrapper, scrollWidthAttr)
	clientWidth := intAttr(wrapper, clientWidthAttr)

	toggleClass(wrapper, shadowLeft, left > 0)
	toggleClass(wrapper, shadowRight, left < scrollWidth-clientWidth)
}

func intAttr(s *goquery.Selection, name string) int {
	v, err := strconv.Atoi(s.AttrOr(name, "0"))
	if err != nil {
		return 0
	}
	return v
}

func toggleClass(s *goquery.Selection, class string, on bool) {
	if on {
		s.AddClass(class)
	} else {
		s.RemoveClass(class)
	}
}
