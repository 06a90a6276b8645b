package chart

import (
	"fmt"
	"strconv"
	"strings"
)

type TooltipStyle struct {
	Background string
	Border     string
	Title      string
	Body       string
}

// Theme is the colour scheme shared by every chart of a page.
type Theme struct {
	Primary    string
	Secondary  string
	Tertiary   string
	Accent     string
	Palette    []string
	Income     []string
	Expense    []string
	Grid       string
	FontFamily string
	Tooltip    TooltipStyle
}

// DefaultTheme returns a fresh copy of the application theme, so callers may not
// alter what other charts see.
func DefaultTheme() Theme {
	return Theme{
		Primary:   "#4f46e5",
		Secondary: "#10b981",
		Tertiary:  "#f59e0b",
		Accent:    "#ef4444",
		Palette: []string{
			"#4f46e5", "#10b981", "#f59e0b", "#ef4444",
			"#8b5cf6", "#06b6d4", "#ec4899", "#84cc16",
		},
		Income: []string{
			"#10b981", "#34d399", "#059669", "#6ee7b7", "#047857",
		},
		Expense: []string{
			"#ef4444", "#f97316", "#f59e0b", "#ec4899", "#dc2626", "#fb7185", "#b91c1c",
		},
		Grid:       "rgba(148, 163, 184, 0.15)",
		FontFamily: "'Inter', system-ui, sans-serif",
		Tooltip: TooltipStyle{
			Background: "rgba(15, 23, 42, 0.9)",
			Border:     "#334155",
			Title:      "#f8fafc",
			Body:       "#e2e8f0",
		},
	}
}

// ColorAt returns the palette colour for position n, cycling over the palette.
func ColorAt(palette []string, n int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[n%len(palette)]
}

func cycle(palette []string, n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = ColorAt(palette, i)
	}
	return colors
}

// HexToRGBA converts "#rrggbb" or "#rgb" into an rgba() colour with the given alpha.
// Anything else is returned unchanged.
func HexToRGBA(hex string, alpha float64) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return hex
	}
	rgb, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return hex
	}
	r, g, b := rgb>>16&0xff, rgb>>8&0xff, rgb&0xff
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}
