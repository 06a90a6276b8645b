package ui

import (
	"html/template"
	"time"

	"github.com/klokku/fintrack/pkg/currency"
	"github.com/shopspring/decimal"
)

// FormatDate renders a date the way the pages show it, e.g. "Mar 5, 2024".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TemplateFuncs exposes the formatting helpers to page templates.
func TemplateFuncs(formatter *currency.Formatter) template.FuncMap {
	return template.FuncMap{
		"currency":      func(d decimal.Decimal) string { return formatter.Precise(d) },
		"wholeCurrency": func(d decimal.Decimal) string { return formatter.Whole(d) },
		"percentage":    func(value, total decimal.Decimal) string { return currency.Percentage(value, total) },
		"date":          FormatDate,
	}
}
