package chart

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *RecordingEngine, *utils.MockClock, *event_bus.EventBus) {
	t.Helper()
	engine := &RecordingEngine{}
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	return NewController(engine, DefaultTheme(), clock, 300*time.Millisecond), engine, clock, event_bus.NewEventBus()
}

func resize(t *testing.T, bus *event_bus.EventBus, width, height int) {
	t.Helper()
	event := event_bus.NewEvent(context.Background(), event_bus.Resize, event_bus.WindowResized{Width: width, Height: height})
	require.NoError(t, bus.Publish(event))
}

func TestController_ResizeBurstRunsOnePass(t *testing.T) {
	controller, engine, clock, bus := newTestController(t)
	controller.ListenForResize(bus)
	renderer := controller.Renderer()
	_, err := renderer.RenderTrendChart(NewCanvas("trend", 800, 300), trendPoints(3))
	require.NoError(t, err)
	_, err = renderer.RenderPie(NewCanvas("pie", 300, 300), nil, nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		resize(t, bus, 1000-i, 700)
		clock.Advance(299 * time.Millisecond)
	}
	assert.Equal(t, 0, controller.ResizePasses())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, controller.ResizePasses())
	for _, d := range engine.Drawings {
		assert.Equal(t, 2, d.ResizeCount())
	}

	clock.Advance(time.Second)
	assert.Equal(t, 1, controller.ResizePasses())
}

func TestController_SeparateBurstsRunSeparatePasses(t *testing.T) {
	controller, _, clock, bus := newTestController(t)
	controller.ListenForResize(bus)

	resize(t, bus, 800, 600)
	clock.Advance(300 * time.Millisecond)
	resize(t, bus, 900, 600)
	clock.Advance(300 * time.Millisecond)

	assert.Equal(t, 2, controller.ResizePasses())
}

func TestController_ListenForResizeInstallsOneListener(t *testing.T) {
	controller, _, clock, bus := newTestController(t)

	unsubscribe := controller.ListenForResize(bus)
	controller.ListenForResize(bus)
	assert.Equal(t, 1, bus.Subscribers(event_bus.Resize))

	resize(t, bus, 800, 600)
	unsubscribe()
	clock.Advance(time.Second)

	assert.Equal(t, 0, bus.Subscribers(event_bus.Resize))
	assert.Equal(t, 0, controller.ResizePasses())
	assert.NotPanics(t, unsubscribe)

	controller.ListenForResize(bus)
	assert.Equal(t, 1, bus.Subscribers(event_bus.Resize))
}

func TestController_DestroyedChartsAreSkipped(t *testing.T) {
	controller, engine, clock, bus := newTestController(t)
	controller.ListenForResize(bus)
	h, err := controller.Renderer().RenderTrendChart(NewCanvas("trend", 800, 300), nil)
	require.NoError(t, err)
	h.Destroy()

	resize(t, bus, 800, 600)
	clock.Advance(300 * time.Millisecond)

	assert.Equal(t, 1, controller.ResizePasses())
	assert.Equal(t, 1, engine.Drawings[0].ResizeCount())
}

func TestController_CloseReleasesEverything(t *testing.T) {
	controller, engine, _, bus := newTestController(t)
	controller.ListenForResize(bus)
	_, err := controller.Renderer().RenderTrendChart(NewCanvas("a", 1, 1), nil)
	require.NoError(t, err)
	_, err = controller.Renderer().RenderPie(NewCanvas("b", 1, 1), nil, nil)
	require.NoError(t, err)

	controller.Close()

	assert.Equal(t, 0, controller.Registry().Len())
	assert.Equal(t, 0, bus.Subscribers(event_bus.Resize))
	for _, d := range engine.Drawings {
		assert.True(t, d.Destroyed)
	}
}
