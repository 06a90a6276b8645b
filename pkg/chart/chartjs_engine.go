package chart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klokku/fintrack/pkg/currency"
	"github.com/shopspring/decimal"
)

// Chart.js v4 configuration, as consumed by `new Chart(canvas, config)`.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
	// BorderColor and BackgroundColor hold either one colour or one colour per point.
	BorderColor     any     `json:"borderColor,omitempty"`
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderWidth     int     `json:"borderWidth,omitempty"`
	BorderRadius    int     `json:"borderRadius,omitempty"`
	Fill            *bool   `json:"fill,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
	PointRadius     *int    `json:"pointRadius,omitempty"`
	HoverOffset     int     `json:"hoverOffset,omitempty"`
}

type Options struct {
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	Locale              string           `json:"locale,omitempty"`
	Animation           Animation        `json:"animation"`
	Cutout              string           `json:"cutout,omitempty"`
	Interaction         *Interaction     `json:"interaction,omitempty"`
	Plugins             Plugins          `json:"plugins"`
	Scales              map[string]Scale `json:"scales,omitempty"`
}

type Animation struct {
	Duration int    `json:"duration"`
	Easing   string `json:"easing"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Plugins struct {
	Legend  Legend  `json:"legend"`
	Tooltip Tooltip `json:"tooltip"`
}

type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type Tooltip struct {
	BackgroundColor string `json:"backgroundColor"`
	TitleColor      string `json:"titleColor"`
	BodyColor       string `json:"bodyColor"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
	Padding         int    `json:"padding"`
	CornerRadius    int    `json:"cornerRadius"`
	TitleFont       Font   `json:"titleFont"`
	BodyFont        Font   `json:"bodyFont"`
	// FormattedLabels[dataset][point] is picked up by the page's tooltip label callback.
	FormattedLabels [][]string `json:"formattedLabels"`
}

type Scale struct {
	BeginAtZero bool   `json:"beginAtZero"`
	Grid        Grid   `json:"grid"`
	Ticks       *Ticks `json:"ticks,omitempty"`
}

type Grid struct {
	Display bool   `json:"display"`
	Color   string `json:"color,omitempty"`
}

type Ticks struct {
	Format *currency.NumberFormat `json:"format,omitempty"`
}

const (
	animationDuration = 1000
	animationEasing   = "easeOutQuart"
	lineTension       = 0.4
	barCornerRadius   = 6
	doughnutCutout    = "70%"
	fillAlpha         = 0.1
)

// ChartJSEngine turns specs into Chart.js configurations.
type ChartJSEngine struct {
	formatter *currency.Formatter
}

func NewChartJSEngine(formatter *currency.Formatter) *ChartJSEngine {
	return &ChartJSEngine{formatter: formatter}
}

func (e *ChartJSEngine) Render(kind Kind, spec Spec, theme Theme) (Drawing, error) {
	config, err := e.build(kind, spec, theme)
	if err != nil {
		return nil, err
	}
	return &ChartJSDrawing{engine: e, kind: kind, theme: theme, config: config}, nil
}

func (e *ChartJSEngine) build(kind Kind, spec Spec, theme Theme) (Config, error) {
	config := Config{
		Type: string(kind),
		Data: Data{
			Labels:   append([]string{}, spec.Labels...),
			Datasets: make([]Dataset, 0, len(spec.Series)),
		},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Locale:              e.formatter.Locale(),
			Animation:           Animation{Duration: animationDuration, Easing: animationEasing},
			Plugins: Plugins{
				Legend:  Legend{Display: spec.Legend, Position: "top"},
				Tooltip: e.tooltip(spec, theme),
			},
		},
	}

	switch kind {
	case Line:
		for _, s := range spec.Series {
			config.Data.Datasets = append(config.Data.Datasets, lineDataset(s))
		}
		config.Options.Interaction = &Interaction{Mode: "index", Intersect: false}
		config.Options.Scales = e.cartesianScales(theme)
	case Bar:
		for _, s := range spec.Series {
			config.Data.Datasets = append(config.Data.Datasets, Dataset{
				Label:           s.Name,
				Data:            floats(s.Values),
				BackgroundColor: s.Color,
				BorderColor:     s.Color,
				BorderRadius:    barCornerRadius,
			})
		}
		config.Options.Scales = e.cartesianScales(theme)
	case Pie, Doughnut:
		for _, s := range spec.Series {
			config.Data.Datasets = append(config.Data.Datasets, Dataset{
				Label:           s.Name,
				Data:            floats(s.Values),
				BackgroundColor: cycle(s.Palette, len(s.Values)),
				BorderColor:     "#ffffff",
				BorderWidth:     2,
				HoverOffset:     4,
			})
		}
		config.Options.Plugins.Legend.Position = "bottom"
		if kind == Doughnut {
			config.Options.Cutout = doughnutCutout
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	return config, nil
}

func lineDataset(s Series) Dataset {
	fill := s.Fill
	background := s.Color
	if s.Fill {
		background = HexToRGBA(s.Color, fillAlpha)
	}
	tension := 0.0
	if s.Smooth {
		tension = lineTension
	}
	return Dataset{
		Label:           s.Name,
		Data:            floats(s.Values),
		BorderColor:     s.Color,
		BackgroundColor: background,
		BorderWidth:     2,
		Fill:            &fill,
		Tension:         tension,
	}
}

// cartesianScales hides the category-axis grid and formats value ticks as whole currency.
func (e *ChartJSEngine) cartesianScales(theme Theme) map[string]Scale {
	format := e.formatter.NumberFormat()
	return map[string]Scale{
		"x": {Grid: Grid{Display: false}},
		"y": {
			BeginAtZero: true,
			Grid:        Grid{Display: true, Color: theme.Grid},
			Ticks:       &Ticks{Format: &format},
		},
	}
}

func (e *ChartJSEngine) tooltip(spec Spec, theme Theme) Tooltip {
	labels := make([][]string, len(spec.Series))
	for i, s := range spec.Series {
		labels[i] = make([]string, len(s.Values))
		switch spec.Tooltip {
		case TooltipShare:
			total := decimal.Zero
			for _, v := range s.Values {
				total = total.Add(v)
			}
			for j, v := range s.Values {
				label := ""
				if j < len(spec.Labels) {
					label = spec.Labels[j]
				}
				labels[i][j] = fmt.Sprintf("%s: %s (%s%%)", label, e.formatter.Precise(v), currency.Percentage(v, total))
			}
		default:
			for j, v := range s.Values {
				labels[i][j] = fmt.Sprintf("%s: %s", s.Name, e.formatter.Precise(v))
			}
		}
	}
	return Tooltip{
		BackgroundColor: theme.Tooltip.Background,
		TitleColor:      theme.Tooltip.Title,
		BodyColor:       theme.Tooltip.Body,
		BorderColor:     theme.Tooltip.Border,
		BorderWidth:     1,
		Padding:         12,
		CornerRadius:    8,
		TitleFont:       Font{Family: theme.FontFamily, Size: 13, Weight: "600"},
		BodyFont:        Font{Family: theme.FontFamily, Size: 12},
		FormattedLabels: labels,
	}
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// ChartJSDrawing is a chart configuration kept alive between redraws.
type ChartJSDrawing struct {
	mu        sync.Mutex
	engine    *ChartJSEngine
	kind      Kind
	theme     Theme
	config    Config
	width     int
	height    int
	redraws   int
	destroyed bool
}

func (d *ChartJSDrawing) Update(spec Spec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}
	config, err := d.engine.build(d.kind, spec, d.theme)
	if err != nil {
		return err
	}
	d.config = config
	d.redraws++
	return nil
}

func (d *ChartJSDrawing) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return
	}
	d.width, d.height = width, height
	d.redraws++
}

func (d *ChartJSDrawing) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
	d.config = Config{}
}

func (d *ChartJSDrawing) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

func (d *ChartJSDrawing) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Redraws counts updates and resizes since the chart was first drawn.
func (d *ChartJSDrawing) Redraws() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.redraws
}

func (d *ChartJSDrawing) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Config())
}
