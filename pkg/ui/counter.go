package ui

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FrameSource calls back once per display refresh with the frame time.
type FrameSource interface {
	RequestFrame(callback func(now time.Time))
}

// AnimateValue counts the text of el from start to end over duration, easing out.
// The first frame fixes the start time; the last frame always shows end.
func (p *Page) AnimateValue(el *goquery.Selection, start, end int, duration time.Duration, frames FrameSource) {
	var begin time.Time
	var step func(now time.Time)
	step = func(now time.Time) {
		if begin.IsZero() {
			begin = now
		}
		progress := 1.0
		if duration > 0 {
			progress = math.Min(float64(now.Sub(begin))/float64(duration), 1)
		}
		value := start + int(math.Floor(easeOutCubic(progress)*float64(end-start)))
		if progress >= 1 {
			value = end
		}

		p.mu.Lock()
		closed := p.closed
		if !closed {
			el.SetText(strconv.Itoa(value))
		}
		p.mu.Unlock()

		if progress < 1 && !closed {
			frames.RequestFrame(step)
		}
	}
	frames.RequestFrame(step)
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// ManualFrames is a FrameSource driven by calls to Tick.
type ManualFrames struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

func (f *ManualFrames) RequestFrame(callback func(now time.Time)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, callback)
}

// Tick runs the callbacks requested before this frame.
func (f *ManualFrames) Tick(now time.Time) {
	f.mu.Lock()
	callbacks := f.pending
	f.pending = nil
	f.mu.Unlock()
	for _, cb := range callbacks {
		cb(now)
	}
}

func (f *ManualFrames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
