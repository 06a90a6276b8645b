package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

var ErrUnknownKind = errors.New("unknown transaction kind")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Income, Expense:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// TimeSeriesPoint is one period of the income/expense trend. Points are kept in the
// chronological order the caller supplies.
type TimeSeriesPoint struct {
	Period  string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type CategoryBreakdown struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Summary holds the headline totals of a period.
type Summary struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Total sums the non-negative values of a breakdown.
func Total(breakdown []CategoryBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, c := range breakdown {
		if c.Value.IsPositive() {
			total = total.Add(c.Value)
		}
	}
	return total
}
