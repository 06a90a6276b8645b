package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_WholeAndPrecise(t *testing.T) {
	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)

	tests := []struct {
		amount  string
		whole   string
		precise string
	}{
		{"1234.56", "$1,235", "$1,234.56"},
		{"0", "$0", "$0.00"},
		{"0.5", "$1", "$0.50"},
		{"1000000", "$1,000,000", "$1,000,000.00"},
		{"-250.4", "-$250", "-$250.40"},
		{"12.345", "$12", "$12.35"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.whole, f.Whole(amount))
			assert.Equal(t, tt.precise, f.Precise(amount))
		})
	}
}

func TestFormatter_LocaleSeparators(t *testing.T) {
	f, err := NewFormatter("de-DE", "EUR")
	require.NoError(t, err)

	assert.Equal(t, "1.234,56 €", f.Precise(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "1.235 €", f.Whole(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "EUR", f.Code())
	assert.Equal(t, "de-DE", f.Locale())
}

func TestFormatter_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	f, err := NewFormatter("fi-FI", "usd")
	require.NoError(t, err)

	assert.Equal(t, "$1,234.50", f.Precise(decimal.RequireFromString("1234.5")))
}

func TestNewFormatter_Errors(t *testing.T) {
	_, err := NewFormatter("en-US", "XXXX")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = NewFormatter("not a locale!", "USD")
	assert.Error(t, err)
}

func TestFormatter_NumberFormat(t *testing.T) {
	f, err := NewFormatter("en-GB", "GBP")
	require.NoError(t, err)

	assert.Equal(t, NumberFormat{Style: "currency", Currency: "GBP"}, f.NumberFormat())
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"12":      "12",
		" 12.5 ":  "12.5",
		".5":      "0.5",
		"0.01":    "0.01",
		"1000.99": "1000.99",
	}
	for in, want := range valid {
		got, err := ParseAmount(in)
		assert.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), in)
	}

	for _, in := range []string{"", "   ", "abc", "-5", "0", "0.00", "12,50", "1,500", "1e3", "12.", "1.2.3", "12abc"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestFormatter_ParseAmount(t *testing.T) {
	tests := []struct {
		locale string
		input  string
		want   string
	}{
		{"en-US", "1,500", "1500"},
		{"en-US", "1,234,567.89", "1234567.89"},
		{"en-US", "12.5", "12.5"},
		{"en-US", "1,500.5", "1500.5"},
		{"de-DE", "1,500", "1.5"},
		{"de-DE", "1.500", "1500"},
		{"de-DE", "1.234,56", "1234.56"},
		{"de-DE", "12,5", "12.5"},
		{"de-DE", "12.5", "12.5"},
		{"fr-FR", "1 234,5", "1234.5"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.input, func(t *testing.T) {
			f, err := NewFormatter(tt.locale, "EUR")
			require.NoError(t, err)

			got, err := f.ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), got.String())
		})
	}
}

func TestFormatter_ParseAmountRejectsAmbiguousInput(t *testing.T) {
	tests := []struct {
		locale string
		input  string
	}{
		{"en-US", "1,5"},
		{"en-US", "12,50"},
		{"en-US", "1,50,000"},
		{"en-US", "1.500,25"},
		{"de-DE", "1,500.25"},
		{"de-DE", "1.5,0"},
		{"de-DE", "0"},
		{"de-DE", "-3,5"},
		{"en-US", ""},
	}
	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.input, func(t *testing.T) {
			f, err := NewFormatter(tt.locale, "EUR")
			require.NoError(t, err)

			_, err = f.ParseAmount(tt.input)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestFormatter_InputValue(t *testing.T) {
	assert.Equal(t, "1234.50", MustFormatter("en-US", "USD").InputValue(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "1234,50", MustFormatter("de-DE", "EUR").InputValue(decimal.RequireFromString("1234.5")))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "25.0", Percentage(decimal.NewFromInt(25), decimal.NewFromInt(100)))
	assert.Equal(t, "33.3", Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, "100.0", Percentage(decimal.NewFromInt(7), decimal.NewFromInt(7)))
	assert.Equal(t, "0", Percentage(decimal.NewFromInt(42), decimal.Zero))
	assert.Equal(t, "0", Percentage(decimal.Zero, decimal.Zero))
}
