// Package currency formats and parses money amounts for display in charts and forms.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")
var ErrUnknownCurrency = errors.New("unknown currency code")

type separators struct {
	decimal  string
	thousand string
	// template follows go-money: "1" is the amount, "$" the currency grapheme.
	template string
}

var enSeparators = separators{decimal: ".", thousand: ",", template: "$1"}

var localeSeparators = map[string]separators{
	"en": enSeparators,
	"de": {decimal: ",", thousand: ".", template: "1 $"},
	"it": {decimal: ",", thousand: ".", template: "1 $"},
	"es": {decimal: ",", thousand: ".", template: "1 $"},
	"nl": {decimal: ",", thousand: ".", template: "$ 1"},
	"pt": {decimal: ",", thousand: ".", template: "$ 1"},
	"fr": {decimal: ",", thousand: " ", template: "1 $"},
	"pl": {decimal: ",", thousand: " ", template: "1 $"},
	"ja": {decimal: ".", thousand: ",", template: "$1"},
}

// NumberFormat mirrors the Intl.NumberFormat options understood by the browser.
type NumberFormat struct {
	Style                 string `json:"style"`
	Currency              string `json:"currency"`
	MinimumFractionDigits int    `json:"minimumFractionDigits"`
	MaximumFractionDigits int    `json:"maximumFractionDigits"`
}

type Formatter struct {
	locale  language.Tag
	code    string
	seps    separators
	whole   *money.Formatter
	precise *money.Formatter
}

// NewFormatter builds a formatter for a BCP 47 locale (e.g. "en-US") and an ISO 4217 code.
// Unknown languages fall back to English separators.
func NewFormatter(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}

	base, _ := tag.Base()
	seps, ok := localeSeparators[base.String()]
	if !ok {
		seps = enSeparators
	}

	return &Formatter{
		locale:  tag,
		code:    cur.Code,
		seps:    seps,
		whole:   money.NewFormatter(0, seps.decimal, seps.thousand, cur.Grapheme, seps.template),
		precise: money.NewFormatter(2, seps.decimal, seps.thousand, cur.Grapheme, seps.template),
	}, nil
}

// MustFormatter is NewFormatter for fixed, known-good arguments.
func MustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Code() string {
	return f.code
}

func (f *Formatter) Locale() string {
	return f.locale.String()
}

// Whole formats without fraction digits, rounding half away from zero. Used for chart ticks.
func (f *Formatter) Whole(amount decimal.Decimal) string {
	return f.whole.Format(amount.Round(0).IntPart())
}

// Precise formats with two fraction digits. Used in tooltips and detailed breakdowns.
func (f *Formatter) Precise(amount decimal.Decimal) string {
	return f.precise.Format(amount.Shift(2).Round(0).IntPart())
}

// NumberFormat returns the browser-side equivalent of Whole.
func (f *Formatter) NumberFormat() NumberFormat {
	return NumberFormat{
		Style:                 "currency",
		Currency:              f.code,
		MinimumFractionDigits: 0,
		MaximumFractionDigits: 0,
	}
}

// ParseAmount parses an amount typed in the formatter's locale, e.g. "1,234.50" for en-US
// or "1.234,50" for de-DE. Grouping must be in threes. A plain "12.5" is accepted as well
// when the locale reading fails. Anything else, zero and negative input are rejected with
// ErrInvalidAmount; "1,5" under en-US is never read as one and a half.
func (f *Formatter) ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if d, ok := parseAmount(s, f.seps.decimal, f.seps.thousand); ok {
		return d, nil
	}
	if d, ok := parseAmount(s, ".", ""); ok {
		return d, nil
	}
	return decimal.Zero, ErrInvalidAmount
}

// InputValue renders an amount for an input field: two decimals, the locale's decimal
// separator and no grouping ("1234,50" for de-DE).
func (f *Formatter) InputValue(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", f.seps.decimal, 1)
}

// ParseAmount parses a plain amount: digits with an optional "." fraction and no grouping.
// Empty, non-numeric, zero and negative input is rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	if d, ok := parseAmount(strings.TrimSpace(s), ".", ""); ok {
		return d, nil
	}
	return decimal.Zero, ErrInvalidAmount
}

func parseAmount(s, decimalSep, groupSep string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	whole, fraction, hasFraction := strings.Cut(s, decimalSep)
	if hasFraction && (fraction == "" || !digits(fraction)) {
		return decimal.Zero, false
	}
	if groupSep != "" && strings.Contains(whole, groupSep) {
		groups := strings.Split(whole, groupSep)
		if len(groups[0]) == 0 || len(groups[0]) > 3 {
			return decimal.Zero, false
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return decimal.Zero, false
			}
		}
		whole = strings.Join(groups, "")
	}
	if whole == "" {
		if !hasFraction {
			return decimal.Zero, false
		}
		whole = "0"
	}
	if !digits(whole) {
		return decimal.Zero, false
	}

	canonical := whole
	if hasFraction {
		canonical += "." + fraction
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var hundred = decimal.NewFromInt(100)

// Percentage returns value/total as a percentage with one fraction digit ("25.0").
// A zero (or negative) total yields "0" instead of a division fault.
func Percentage(value, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0"
	}
	return value.Div(total).Mul(hundred).StringFixed(1)
}
