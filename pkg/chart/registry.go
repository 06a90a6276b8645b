package chart

import "sync"

// Registry tracks the live charts of one page so they can be resized and released together.
type Registry struct {
	mu      sync.Mutex
	handles []*Handle
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) add(h *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, live := range r.handles {
		if live.surface.ID() == h.surface.ID() {
			return ErrSurfaceInUse
		}
	}
	r.handles = append(r.handles, h)
	return nil
}

func (r *Registry) remove(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, live := range r.handles {
		if live == h {
			r.handles = append(r.handles[:i], r.handles[i+1:]...)
			return
		}
	}
}

// Live returns the live charts in creation order.
func (r *Registry) Live() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Handle(nil), r.handles...)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Lookup finds the live chart drawn on the given surface.
func (r *Registry) Lookup(surfaceID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.handles {
		if h.surface.ID() == surfaceID {
			return h, true
		}
	}
	return nil, false
}

// ResizeAll resizes every live chart and returns how many were resized.
func (r *Registry) ResizeAll() int {
	live := r.Live()
	for _, h := range live {
		h.Resize()
	}
	return len(live)
}

func (r *Registry) DestroyAll() {
	for _, h := range r.Live() {
		h.Destroy()
	}
}
