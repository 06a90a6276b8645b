package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// FileSource aggregates transactions exported by the backend into a JSON file. The file
// is read once; it holds a single user's transactions.
type FileSource struct {
	transactions []Transaction
}

func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	var transactions []Transaction
	if err := json.NewDecoder(f).Decode(&transactions); err != nil {
		return nil, fmt.Errorf("failed to decode data file %s: %w", path, err)
	}
	for i, t := range transactions {
		if _, err := ParseKind(string(t.Type)); err != nil {
			return nil, fmt.Errorf("transaction %d (%s): %w", i, t.Title, err)
		}
	}
	log.Infof("Loaded %d transactions from %s", len(transactions), path)
	return NewMemorySource(transactions), nil
}

// NewMemorySource aggregates the given transactions.
func NewMemorySource(transactions []Transaction) *FileSource {
	return &FileSource{transactions: transactions}
}

func (s *FileSource) MonthlyTotals(ctx context.Context, from, to time.Time) ([]MonthTotal, error) {
	byMonth := map[time.Time]*MonthTotal{}
	var months []time.Time
	for _, t := range s.between(from, to) {
		m := monthStart(t.Date.Time)
		total, ok := byMonth[m]
		if !ok {
			total = &MonthTotal{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[m] = total
			months = append(months, m)
		}
		switch t.Type {
		case Income:
			total.Income = total.Income.Add(t.Amount)
		case Expense:
			total.Expense = total.Expense.Add(t.Amount)
		}
	}

	result := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		result = append(result, *byMonth[m])
	}
	return result, nil
}

func (s *FileSource) Categories(ctx context.Context, kind Kind, from, to time.Time) ([]CategoryBreakdown, error) {
	byCategory := map[string]decimal.Decimal{}
	var labels []string
	for _, t := range s.between(from, to) {
		if t.Type != kind {
			continue
		}
		if _, ok := byCategory[t.Category]; !ok {
			labels = append(labels, t.Category)
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}

	breakdown := make([]CategoryBreakdown, 0, len(labels))
	for _, label := range labels {
		breakdown = append(breakdown, CategoryBreakdown{Label: label, Value: byCategory[label]})
	}
	sortBreakdown(breakdown)
	return breakdown, nil
}

func (s *FileSource) Totals(ctx context.Context, from, to time.Time) (Totals, error) {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range s.between(from, to) {
		switch t.Type {
		case Income:
			totals.Income = totals.Income.Add(t.Amount)
		case Expense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals, nil
}

func (s *FileSource) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	newest := s.newestFirst(TransactionFilter{})
	if len(newest) > limit {
		newest = newest[:limit]
	}
	return newest, nil
}

func (s *FileSource) Transactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error) {
	matching := s.newestFirst(filter)
	result := TransactionPage{Page: page, Total: len(matching), Categories: s.categoryNames()}
	if offset := pageOffset(page); offset < len(matching) {
		result.Items = matching[offset:min(offset+TransactionsPerPage, len(matching))]
	}
	return result, nil
}

// newestFirst returns the matching transactions by date, newest first. Transactions of
// the same day keep the reverse of their file order, so the last exported comes first.
func (s *FileSource) newestFirst(filter TransactionFilter) []Transaction {
	var result []Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		t := s.transactions[i]
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Kind != "" && t.Type != filter.Kind {
			continue
		}
		result = append(result, t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date.Time)
	})
	return result
}

func (s *FileSource) categoryNames() []string {
	var names []string
	for _, t := range s.transactions {
		if !slices.Contains(names, t.Category) {
			names = append(names, t.Category)
		}
	}
	slices.Sort(names)
	return names
}

func (s *FileSource) between(from, to time.Time) []Transaction {
	var result []Transaction
	for _, t := range s.transactions {
		if !t.Date.Before(from) && t.Date.Before(to) {
			result = append(result, t)
		}
	}
	return result
}
