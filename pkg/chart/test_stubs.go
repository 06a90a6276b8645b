package chart

import (
	"encoding/json"
	"sync"
)

// RecordingEngine is an Engine that keeps the specs it was asked to draw.
type RecordingEngine struct {
	mu       sync.Mutex
	Drawings []*RecordingDrawing
	Err      error
}

func (e *RecordingEngine) Render(kind Kind, spec Spec, theme Theme) (Drawing, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	d := &RecordingDrawing{Kind: kind, Spec: spec.clone()}
	e.Drawings = append(e.Drawings, d)
	return d, nil
}

type RecordingDrawing struct {
	mu        sync.Mutex
	Kind      Kind
	Spec      Spec
	Resizes   int
	Updates   int
	Destroyed bool
}

func (d *RecordingDrawing) Update(spec Spec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Destroyed {
		return ErrDestroyed
	}
	d.Spec = spec.clone()
	d.Updates++
	return nil
}

func (d *RecordingDrawing) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Resizes++
}

func (d *RecordingDrawing) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Destroyed = true
}

func (d *RecordingDrawing) MarshalJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return json.Marshal(map[string]any{"kind": d.Kind, "labels": d.Spec.Labels})
}

func (d *RecordingDrawing) ResizeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Resizes
}
