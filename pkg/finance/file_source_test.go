package finance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportedTransactions = `[
  {"title": "Salary", "amount": "3000.00", "transaction_type": "income", "category": "Salary", "transaction_date": "2024-03-01"},
  {"title": "Rent", "amount": "1200.00", "transaction_type": "expense", "category": "Housing", "transaction_date": "2024-03-02"},
  {"title": "Groceries", "amount": "85.40", "transaction_type": "expense", "category": "Food", "transaction_date": "2024-03-10"},
  {"title": "Dinner", "amount": "40.00", "transaction_type": "expense", "category": "Food", "transaction_date": "2024-04-03"},
  {"title": "Freelance", "amount": "500", "transaction_type": "income", "category": "Freelance", "transaction_date": "2024-04-15"}
]`

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFileSource_MonthlyTotals(t *testing.T) {
	source, err := NewFileSource(writeDataFile(t, exportedTransactions))
	require.NoError(t, err)

	totals, err := source.MonthlyTotals(context.Background(), day(2024, 3, 1), day(2024, 5, 1))

	assert.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, day(2024, 3, 1), totals[0].Month)
	assert.True(t, decimal.RequireFromString("3000").Equal(totals[0].Income))
	assert.True(t, decimal.RequireFromString("1285.40").Equal(totals[0].Expense))
	assert.Equal(t, day(2024, 4, 1), totals[1].Month)
	assert.True(t, decimal.RequireFromString("500").Equal(totals[1].Income))
}

func TestFileSource_CategoriesSortedByValue(t *testing.T) {
	source, err := NewFileSource(writeDataFile(t, exportedTransactions))
	require.NoError(t, err)

	breakdown, err := source.Categories(context.Background(), Expense, day(2024, 1, 1), day(2025, 1, 1))

	assert.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Housing", breakdown[0].Label)
	assert.Equal(t, "Food", breakdown[1].Label)
	assert.True(t, decimal.RequireFromString("125.40").Equal(breakdown[1].Value))
}

func TestFileSource_TotalsRangeIsHalfOpen(t *testing.T) {
	source, err := NewFileSource(writeDataFile(t, exportedTransactions))
	require.NoError(t, err)

	totals, err := source.Totals(context.Background(), day(2024, 3, 2), day(2024, 4, 3))

	assert.NoError(t, err)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, decimal.RequireFromString("1285.40").Equal(totals.Expense))
}

func TestNewFileSource_Errors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = NewFileSource(writeDataFile(t, `{"not": "a list"}`))
	assert.Error(t, err)

	_, err = NewFileSource(writeDataFile(t,
		`[{"title": "Move", "amount": "1", "transaction_type": "transfer", "category": "x", "transaction_date": "2024-01-01"}]`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFileSource_RecentIsNewestFirst(t *testing.T) {
	source, err := NewFileSource(writeDataFile(t, exportedTransactions))
	require.NoError(t, err)

	recent, err := source.Recent(context.Background(), 3)

	assert.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"Freelance", "Dinner", "Groceries"}, []string{recent[0].Title, recent[1].Title, recent[2].Title})

	all, err := source.Recent(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestFileSource_TransactionsFilters(t *testing.T) {
	source, err := NewFileSource(writeDataFile(t, exportedTransactions))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter TransactionFilter
		titles []string
	}{
		{"no filter", TransactionFilter{}, []string{"Freelance", "Dinner", "Groceries", "Rent", "Salary"}},
		{"category", TransactionFilter{Category: "Food"}, []string{"Dinner", "Groceries"}},
		{"kind", TransactionFilter{Kind: Income}, []string{"Freelance", "Salary"}},
		{"category and kind", TransactionFilter{Category: "Food", Kind: Income}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := source.Transactions(context.Background(), tt.filter, 1)

			assert.NoError(t, err)
			assert.Equal(t, len(tt.titles), page.Total)
			var titles []string
			for _, item := range page.Items {
				titles = append(titles, item.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, []string{"Food", "Freelance", "Housing", "Salary"}, page.Categories)
		})
	}
}

func TestFileSource_TransactionsPaginate(t *testing.T) {
	var transactions []Transaction
	start := day(2024, 1, 1)
	for i := 0; i < 45; i++ {
		transactions = append(transactions, Transaction{
			Title:    fmt.Sprintf("T%02d", i),
			Amount:   decimal.NewFromInt(1),
			Type:     Expense,
			Category: "Food",
			Date:     Date{start.AddDate(0, 0, i)},
		})
	}
	source := NewMemorySource(transactions)

	first, err := source.Transactions(context.Background(), TransactionFilter{}, 1)
	assert.NoError(t, err)
	assert.Len(t, first.Items, TransactionsPerPage)
	assert.Equal(t, "T44", first.Items[0].Title)
	assert.Equal(t, 3, first.Pages())
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last, err := source.Transactions(context.Background(), TransactionFilter{}, 3)
	assert.NoError(t, err)
	require.Len(t, last.Items, 5)
	assert.Equal(t, "T00", last.Items[4].Title)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())
	assert.Equal(t, 2, last.PrevPage())

	beyond, err := source.Transactions(context.Background(), TransactionFilter{}, 4)
	assert.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 45, beyond.Total)
}
