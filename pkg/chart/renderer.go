package chart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/klokku/fintrack/pkg/finance"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Renderer builds the application's charts from aggregate data. Every chart it renders
// is registered in the registry it was given.
type Renderer struct {
	engine   Engine
	theme    Theme
	registry *Registry
}

func NewRenderer(engine Engine, theme Theme, registry *Registry) *Renderer {
	return &Renderer{engine: engine, theme: theme, registry: registry}
}

func (r *Renderer) Theme() Theme {
	return r.theme
}

// RenderTrendChart draws income, expense and net balance over the same periods.
// No points draw an empty chart.
func (r *Renderer) RenderTrendChart(surface Surface, points []finance.TimeSeriesPoint) (*Handle, error) {
	labels := make([]string, len(points))
	income := make([]decimal.Decimal, len(points))
	expense := make([]decimal.Decimal, len(points))
	balance := make([]decimal.Decimal, len(points))
	for i, p := range points {
		labels[i] = p.Period
		income[i] = p.Income
		expense[i] = p.Expense
		balance[i] = p.Balance
	}

	spec := Spec{
		Labels: labels,
		Series: []Series{
			{Name: "Income", Values: income, Color: r.theme.Secondary, Smooth: true},
			{Name: "Expenses", Values: expense, Color: r.theme.Accent, Smooth: true},
			{Name: "Net Balance", Values: balance, Color: r.theme.Primary, Fill: true, Smooth: true},
		},
		Legend:  true,
		Tooltip: TooltipValue,
	}
	return r.render(surface, Line, spec)
}

// RenderCategoryDonut draws one slice per category coloured from the income or expense
// palette. The legend is left to the page.
func (r *Renderer) RenderCategoryDonut(surface Surface, breakdown []finance.CategoryBreakdown, kind finance.Kind) (*Handle, error) {
	var palette []string
	switch kind {
	case finance.Income:
		palette = r.theme.Income
	case finance.Expense:
		palette = r.theme.Expense
	default:
		return nil, fmt.Errorf("%w: %q", finance.ErrUnknownKind, kind)
	}

	labels := make([]string, len(breakdown))
	values := make([]decimal.Decimal, len(breakdown))
	for i, c := range breakdown {
		labels[i] = c.Label
		values[i] = nonNegative(c.Value)
	}

	spec := Spec{
		Labels:  labels,
		Series:  []Series{{Name: string(kind), Values: values, Palette: palette}},
		Legend:  false,
		Tooltip: TooltipShare,
	}
	return r.render(surface, Doughnut, spec)
}

// RenderComparativeBars draws grouped bars, dataset i coloured with palette colour i.
func (r *Renderer) RenderComparativeBars(surface Surface, labels []string, datasets []BarDataset) (*Handle, error) {
	series := make([]Series, len(datasets))
	for i, ds := range datasets {
		series[i] = Series{
			Name:   ds.Name,
			Values: append([]decimal.Decimal(nil), ds.Values...),
			Color:  ColorAt(r.theme.Palette, i),
		}
	}
	spec := Spec{
		Labels:  append([]string(nil), labels...),
		Series:  series,
		Legend:  true,
		Tooltip: TooltipValue,
	}
	return r.render(surface, Bar, spec)
}

// RenderPie draws a full pie. Colours given by the caller replace the palette.
func (r *Renderer) RenderPie(surface Surface, labels []string, values []decimal.Decimal, colors ...string) (*Handle, error) {
	palette := r.theme.Palette
	if len(colors) > 0 {
		palette = colors
	}
	clamped := make([]decimal.Decimal, len(values))
	for i, v := range values {
		clamped[i] = nonNegative(v)
	}
	spec := Spec{
		Labels:  append([]string(nil), labels...),
		Series:  []Series{{Values: clamped, Palette: append([]string(nil), palette...)}},
		Legend:  true,
		Tooltip: TooltipShare,
	}
	return r.render(surface, Pie, spec)
}

func (r *Renderer) render(surface Surface, kind Kind, spec Spec) (*Handle, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if _, taken := r.registry.Lookup(surface.ID()); taken {
		return nil, fmt.Errorf("%w: %s", ErrSurfaceInUse, surface.ID())
	}

	drawing, err := r.engine.Render(kind, spec, r.theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", kind, err)
	}
	width, height := surface.Size()
	drawing.Resize(width, height)

	h := &Handle{
		id:       uuid.NewString(),
		kind:     kind,
		surface:  surface,
		registry: r.registry,
		spec:     spec.clone(),
		drawing:  drawing,
	}
	if err := r.registry.add(h); err != nil {
		drawing.Destroy()
		return nil, fmt.Errorf("%w: %s", err, surface.ID())
	}
	log.Debugf("rendered %s chart %s on surface %s", kind, h.id, surface.ID())
	return h, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
