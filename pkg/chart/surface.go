package chart

import "sync"

// Surface is a drawing target a chart renders into.
type Surface interface {
	ID() string
	Size() (width, height int)
}

// Canvas is an in-memory surface whose size follows the page layout.
type Canvas struct {
	mu     sync.Mutex
	id     string
	width  int
	height int
}

func NewCanvas(id string, width, height int) *Canvas {
	return &Canvas{id: id, width: width, height: height}
}

func (c *Canvas) ID() string {
	return c.id
}

func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *Canvas) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
}
