package chart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Handle is the caller's reference to a live chart. It must be destroyed before another
// chart is rendered into the same surface, and is unusable afterwards.
type Handle struct {
	mu        sync.Mutex
	id        string
	kind      Kind
	surface   Surface
	registry  *Registry
	spec      Spec
	drawing   Drawing
	destroyed bool
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Kind() Kind {
	return h.kind
}

func (h *Handle) Surface() Surface {
	return h.surface
}

// Drawing exposes the engine-specific chart, e.g. *ChartJSDrawing.
func (h *Handle) Drawing() Drawing {
	return h.drawing
}

func (h *Handle) Destroyed() bool {
	if h == nil {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// Labels returns a copy of the labels currently displayed. Nil for a nil handle.
func (h *Handle) Labels() []string {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.spec.Labels...)
}

// Series returns a copy of the series currently displayed. Nil for a nil handle.
func (h *Handle) Series() []Series {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.spec.clone().Series
}

// UpdateData replaces the labels and the values of every series in place and redraws.
// The handle keeps its identity; series names and colours are kept.
func (h *Handle) UpdateData(labels []string, series [][]decimal.Decimal) error {
	if h == nil {
		return ErrDestroyed
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	if len(series) != len(h.spec.Series) {
		return fmt.Errorf("%w: chart has %d, got %d", ErrSeriesMismatch, len(h.spec.Series), len(series))
	}

	next := h.spec.clone()
	next.Labels = append([]string(nil), labels...)
	for i := range next.Series {
		next.Series[i].Values = append([]decimal.Decimal(nil), series[i]...)
	}
	if err := h.drawing.Update(next); err != nil {
		return fmt.Errorf("failed to redraw chart %s: %w", h.id, err)
	}
	h.spec = next
	log.Debugf("chart %s updated with %d labels", h.id, len(labels))
	return nil
}

// Resize re-measures the surface and redraws. Safe on nil and destroyed handles.
func (h *Handle) Resize() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}
	width, height := h.surface.Size()
	h.drawing.Resize(width, height)
}

// Destroy releases the drawing and forgets the chart. Safe to call repeatedly and on nil.
func (h *Handle) Destroy() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.destroyed = true
	h.drawing.Destroy()
	h.mu.Unlock()

	if h.registry != nil {
		h.registry.remove(h)
	}
	log.Debugf("chart %s on surface %s destroyed", h.id, h.surface.ID())
}

// MarshalJSON encodes the engine configuration; a nil handle encodes as null.
func (h *Handle) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	return h.drawing.MarshalJSON()
}
