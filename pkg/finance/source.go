package finance

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AggregateSource reads pre-aggregated transaction totals owned by the finance backend.
// Ranges are half-open: from is included, to is not.
type AggregateSource interface {
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]MonthTotal, error)
	Categories(ctx context.Context, kind Kind, from, to time.Time) ([]CategoryBreakdown, error)
	Totals(ctx context.Context, from, to time.Time) (Totals, error)
	// Recent returns up to limit transactions, newest first.
	Recent(ctx context.Context, limit int) ([]Transaction, error)
	// Transactions returns one page of the transactions matching the filter, newest first.
	Transactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error)
}

const TransactionsPerPage = 20

// TransactionFilter narrows the transaction list. Empty fields match everything.
type TransactionFilter struct {
	Category string
	Kind     Kind
}

// TransactionPage is one page of a transaction list. Pages count from 1; a page past the
// end has no items. Categories names every category of the unfiltered list, sorted.
type TransactionPage struct {
	Items      []Transaction
	Page       int
	Total      int
	Categories []string
}

func (p TransactionPage) Pages() int {
	return (p.Total + TransactionsPerPage - 1) / TransactionsPerPage
}

func (p TransactionPage) HasPrev() bool {
	return p.Page > 1
}

func (p TransactionPage) HasNext() bool {
	return p.Page < p.Pages()
}

func (p TransactionPage) PrevPage() int {
	return p.Page - 1
}

func (p TransactionPage) NextPage() int {
	return p.Page + 1
}

func pageOffset(page int) int {
	return (page - 1) * TransactionsPerPage
}

// MonthTotal is the income and expense of one calendar month, keyed by its first day.
type MonthTotal struct {
	Month   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Transaction is a backend transaction row as exported to a data file.
type Transaction struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Kind            `json:"transaction_type"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        Date            `json:"transaction_date"`
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// sortBreakdown orders categories by value, largest first, then by label.
func sortBreakdown(breakdown []CategoryBreakdown) {
	sort.SliceStable(breakdown, func(i, j int) bool {
		if c := breakdown[i].Value.Cmp(breakdown[j].Value); c != 0 {
			return c > 0
		}
		return breakdown[i].Label < breakdown[j].Label
	})
}
