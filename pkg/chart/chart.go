package chart

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	Line     Kind = "line"
	Bar      Kind = "bar"
	Pie      Kind = "pie"
	Doughnut Kind = "doughnut"
)

var (
	ErrDestroyed       = errors.New("chart has been destroyed")
	ErrSeriesMismatch  = errors.New("series count does not match the chart")
	ErrNoSurface       = errors.New("no drawing surface")
	ErrSurfaceInUse    = errors.New("surface already holds a live chart")
	ErrUnsupportedKind = errors.New("unsupported chart kind")
)

type TooltipMode int

const (
	// TooltipValue shows "<series>: <amount>".
	TooltipValue TooltipMode = iota
	// TooltipShare shows "<label>: <amount> (<percentage>%)".
	TooltipShare
)

// Series is one engine-neutral data series.
type Series struct {
	Name   string
	Values []decimal.Decimal
	Color  string
	// Palette colours individual points (slices), cycled over the values.
	Palette []string
	Fill    bool
	Smooth  bool
}

// Spec is what an Engine needs to draw a chart, independent of the charting library.
type Spec struct {
	Labels  []string
	Series  []Series
	Legend  bool
	Tooltip TooltipMode
}

// BarDataset is one named group of bar values.
type BarDataset struct {
	Name   string
	Values []decimal.Decimal
}

// Engine draws specs. It is the only place that knows about a concrete charting library.
type Engine interface {
	Render(kind Kind, spec Spec, theme Theme) (Drawing, error)
}

// Drawing is a live chart owned by an Engine.
type Drawing interface {
	Update(spec Spec) error
	Resize(width, height int)
	Destroy()
	MarshalJSON() ([]byte, error)
}

func (s Spec) clone() Spec {
	c := Spec{
		Labels:  append([]string(nil), s.Labels...),
		Series:  make([]Series, len(s.Series)),
		Legend:  s.Legend,
		Tooltip: s.Tooltip,
	}
	for i, series := range s.Series {
		series.Values = append([]decimal.Decimal(nil), series.Values...)
		series.Palette = append([]string(nil), series.Palette...)
		c.Series[i] = series
	}
	return c
}
