package chart

import (
	"sync"
	"time"

	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/internal/utils"
	log "github.com/sirupsen/logrus"
)

const DefaultResizeDebounce = 300 * time.Millisecond

// Controller owns the charts of one page: the registry of live charts, the renderer
// bound to it, and the single window resize listener that keeps them in step.
type Controller struct {
	registry  *Registry
	renderer  *Renderer
	debouncer *utils.Debouncer

	mu          sync.Mutex
	unsubscribe func()
	passes      int
}

func NewController(engine Engine, theme Theme, clock utils.Clock, resizeDebounce time.Duration) *Controller {
	if resizeDebounce <= 0 {
		resizeDebounce = DefaultResizeDebounce
	}
	registry := NewRegistry()
	return &Controller{
		registry:  registry,
		renderer:  NewRenderer(engine, theme, registry),
		debouncer: utils.NewDebouncer(clock, resizeDebounce),
	}
}

func (c *Controller) Renderer() *Renderer {
	return c.renderer
}

func (c *Controller) Registry() *Registry {
	return c.registry
}

// ListenForResize subscribes to window resize events on the bus. Bursts of resizes are
// collapsed into one resize pass over every live chart once the window settles.
// Only one listener is installed per controller; later calls return the same teardown.
func (c *Controller) ListenForResize(bus *event_bus.EventBus) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		return c.unsubscribe
	}

	busUnsubscribe := event_bus.SubscribeTyped[event_bus.WindowResized](bus, event_bus.Resize,
		func(e event_bus.EventT[event_bus.WindowResized]) error {
			c.debouncer.Trigger(c.resizePass)
			return nil
		})

	var once sync.Once
	c.unsubscribe = func() {
		once.Do(func() {
			busUnsubscribe()
			c.debouncer.Cancel()
			c.mu.Lock()
			c.unsubscribe = nil
			c.mu.Unlock()
		})
	}
	return c.unsubscribe
}

func (c *Controller) resizePass() {
	resized := c.registry.ResizeAll()
	c.mu.Lock()
	c.passes++
	c.mu.Unlock()
	log.Debugf("resized %d chart(s)", resized)
}

// ResizePasses reports how many debounced resize passes ran.
func (c *Controller) ResizePasses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

// Close removes the resize listener and destroys every live chart.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	c.registry.DestroyAll()
}
