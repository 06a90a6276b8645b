package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/fintrack/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	trendMonths        = 12
	recentTransactions = 5
)

// Dashboard is the current month at a glance.
type Dashboard struct {
	Summary  Summary
	Expenses []CategoryBreakdown
	Recent   []Transaction
}

// Reports holds the yearly report page data.
type Reports struct {
	Year     int
	Trend    []TimeSeriesPoint
	Income   []CategoryBreakdown
	Expenses []CategoryBreakdown
}

type ReportService interface {
	Trend(ctx context.Context) ([]TimeSeriesPoint, error)
	YearCategories(ctx context.Context, kind Kind) ([]CategoryBreakdown, error)
	Dashboard(ctx context.Context) (Dashboard, error)
	Reports(ctx context.Context) (Reports, error)
	Transactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error)
}

type ReportServiceImpl struct {
	source AggregateSource
	clock  utils.Clock
}

func NewReportService(source AggregateSource, clock utils.Clock) *ReportServiceImpl {
	return &ReportServiceImpl{source: source, clock: clock}
}

// Trend returns the last twelve calendar months, oldest first, the current month included.
// Months without transactions are reported as zero.
func (s *ReportServiceImpl) Trend(ctx context.Context) ([]TimeSeriesPoint, error) {
	current := monthStart(s.today())
	from := current.AddDate(0, -(trendMonths - 1), 0)
	to := current.AddDate(0, 1, 0)

	totals, err := s.source.MonthlyTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}
	byMonth := make(map[time.Time]MonthTotal, len(totals))
	for _, t := range totals {
		byMonth[t.Month] = t
	}

	points := make([]TimeSeriesPoint, 0, trendMonths)
	for m := from; m.Before(to); m = m.AddDate(0, 1, 0) {
		income, expense := decimal.Zero, decimal.Zero
		if t, ok := byMonth[m]; ok {
			income, expense = t.Income, t.Expense
		}
		points = append(points, TimeSeriesPoint{
			Period:  m.Format("Jan 2006"),
			Income:  income,
			Expense: expense,
			Balance: income.Sub(expense),
		})
	}
	return points, nil
}

// YearCategories breaks the current calendar year down by category.
func (s *ReportServiceImpl) YearCategories(ctx context.Context, kind Kind) ([]CategoryBreakdown, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	today := s.today()
	from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	breakdown, err := s.source.Categories(ctx, kind, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s categories: %w", kind, err)
	}
	return breakdown, nil
}

func (s *ReportServiceImpl) Dashboard(ctx context.Context) (Dashboard, error) {
	from := monthStart(s.today())
	to := from.AddDate(0, 1, 0)

	totals, err := s.source.Totals(ctx, from, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load month totals: %w", err)
	}
	expenses, err := s.source.Categories(ctx, Expense, from, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load month expenses: %w", err)
	}
	recent, err := s.source.Recent(ctx, recentTransactions)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	return Dashboard{
		Summary: Summary{
			Period:  from.Format("January 2006"),
			Income:  totals.Income,
			Expense: totals.Expense,
			Balance: totals.Income.Sub(totals.Expense),
		},
		Expenses: expenses,
		Recent:   recent,
	}, nil
}

func (s *ReportServiceImpl) Reports(ctx context.Context) (Reports, error) {
	trend, err := s.Trend(ctx)
	if err != nil {
		return Reports{}, err
	}
	income, err := s.YearCategories(ctx, Income)
	if err != nil {
		return Reports{}, err
	}
	expenses, err := s.YearCategories(ctx, Expense)
	if err != nil {
		return Reports{}, err
	}
	return Reports{Year: s.today().Year(), Trend: trend, Income: income, Expenses: expenses}, nil
}

// Transactions lists the filtered transactions a page at a time. Pages below 1 are read
// as the first page.
func (s *ReportServiceImpl) Transactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error) {
	if filter.Kind != "" {
		if _, err := ParseKind(string(filter.Kind)); err != nil {
			return TransactionPage{}, err
		}
	}
	page = max(page, 1)
	result, err := s.source.Transactions(ctx, filter, page)
	if err != nil {
		return TransactionPage{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	return result, nil
}

func (s *ReportServiceImpl) today() time.Time {
	now := s.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
