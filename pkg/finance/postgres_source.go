package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Querier is satisfied by *pgx.Conn and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSource reads aggregates straight from the backend's transactions table. It
// never writes.
type PostgresSource struct {
	db     Querier
	userId string
}

func NewPostgresSource(db Querier, userId string) *PostgresSource {
	return &PostgresSource{db: db, userId: userId}
}

func (s *PostgresSource) MonthlyTotals(ctx context.Context, from, to time.Time) ([]MonthTotal, error) {
	query := `SELECT date_trunc('month', transaction_date)::date AS month,
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)::text,
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)::text
			  FROM transactions
			  WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
			  GROUP BY month
			  ORDER BY month`

	rows, err := s.db.Query(ctx, query, s.userId, from, to)
	if err != nil {
		err := fmt.Errorf("could not query monthly totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var result []MonthTotal
	for rows.Next() {
		var month time.Time
		var income, expense string
		if err := rows.Scan(&month, &income, &expense); err != nil {
			return nil, fmt.Errorf("could not scan monthly totals: %w", err)
		}
		total := MonthTotal{Month: monthStart(month)}
		if total.Income, err = decimal.NewFromString(income); err != nil {
			return nil, err
		}
		if total.Expense, err = decimal.NewFromString(expense); err != nil {
			return nil, err
		}
		result = append(result, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}
	return result, nil
}

func (s *PostgresSource) Categories(ctx context.Context, kind Kind, from, to time.Time) ([]CategoryBreakdown, error) {
	query := `SELECT category, SUM(amount)::text
			  FROM transactions
			  WHERE user_id = $1 AND transaction_type = $2
				AND transaction_date >= $3 AND transaction_date < $4
			  GROUP BY category`

	rows, err := s.db.Query(ctx, query, s.userId, string(kind), from, to)
	if err != nil {
		err := fmt.Errorf("could not query %s categories: %w", kind, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var breakdown []CategoryBreakdown
	for rows.Next() {
		var label, total string
		if err := rows.Scan(&label, &total); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		value, err := decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, CategoryBreakdown{Label: label, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	sortBreakdown(breakdown)
	return breakdown, nil
}

func (s *PostgresSource) Totals(ctx context.Context, from, to time.Time) (Totals, error) {
	query := `SELECT
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)::text,
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)::text
			  FROM transactions
			  WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3`

	var income, expense string
	if err := s.db.QueryRow(ctx, query, s.userId, from, to).Scan(&income, &expense); err != nil {
		err := fmt.Errorf("could not query totals: %w", err)
		log.Error(err)
		return Totals{}, err
	}
	var totals Totals
	var err error
	if totals.Income, err = decimal.NewFromString(income); err != nil {
		return Totals{}, err
	}
	if totals.Expense, err = decimal.NewFromString(expense); err != nil {
		return Totals{}, err
	}
	return totals, nil
}

const transactionColumns = `title, amount::text, transaction_type, category, COALESCE(description, ''), transaction_date`

func (s *PostgresSource) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + `
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY transaction_date DESC, id DESC
			  LIMIT $2`

	rows, err := s.db.Query(ctx, query, s.userId, limit)
	if err != nil {
		err := fmt.Errorf("could not query recent transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectTransactions(rows)
}

func (s *PostgresSource) Transactions(ctx context.Context, filter TransactionFilter, page int) (TransactionPage, error) {
	conditions := []string{"user_id = $1"}
	args := []any{s.userId}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		conditions = append(conditions, fmt.Sprintf("transaction_type = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	result := TransactionPage{Page: page}
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&result.Total); err != nil {
		err := fmt.Errorf("could not count transactions: %w", err)
		log.Error(err)
		return TransactionPage{}, err
	}

	query := fmt.Sprintf(`SELECT %s
			  FROM transactions
			  WHERE %s
			  ORDER BY transaction_date DESC, id DESC
			  LIMIT %d OFFSET %d`, transactionColumns, where, TransactionsPerPage, pageOffset(page))
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return TransactionPage{}, err
	}
	if result.Items, err = collectTransactions(rows); err != nil {
		return TransactionPage{}, err
	}

	rows, err = s.db.Query(ctx, `SELECT DISTINCT category FROM transactions WHERE user_id = $1 ORDER BY category`, s.userId)
	if err != nil {
		return TransactionPage{}, fmt.Errorf("could not query category names: %w", err)
	}
	if result.Categories, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
		return TransactionPage{}, fmt.Errorf("could not scan category names: %w", err)
	}
	return result, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		var t Transaction
		var amount, kind string
		if err := rows.Scan(&t.Title, &amount, &kind, &t.Category, &t.Description, &t.Date.Time); err != nil {
			return nil, fmt.Errorf("could not scan transaction: %w", err)
		}
		var err error
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		t.Type = Kind(kind)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return result, nil
}
