package ui

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/klokku/fintrack/pkg/finance"
)

const TransactionDateSelector = "#transaction_date"

// applyDateDefaults caps date pickers at today and pre-fills the transaction date.
// Must be called with the page lock held.
func applyDateDefaults(p *Page) {
	today := p.clock.Now().Format(finance.DateLayout)
	p.doc.Find(`input[type="date"]`).Each(func(_ int, field *goquery.Selection) {
		if _, ok := field.Attr("max"); !ok {
			field.SetAttr("max", today)
		}
	})
	p.doc.Find(TransactionDateSelector).Each(func(_ int, field *goquery.Selection) {
		if isBlank(field.AttrOr("value", "")) {
			field.SetAttr("value", today)
		}
	})
}
