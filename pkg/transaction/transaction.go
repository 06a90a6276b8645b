package transaction

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/klokku/fintrack/pkg/currency"
	"github.com/klokku/fintrack/pkg/finance"
)

const (
	RequiredMessage    = "This field is required."
	InvalidAmount      = "Please enter a valid amount."
	InvalidType        = "Transaction type must be income or expense."
	InvalidDateMessage = "Date must be in YYYY-MM-DD format."
)

// TransactionDTO is a transaction as entered in the form. Every field is raw text.
type TransactionDTO struct {
	Title           string `json:"title"`
	Amount          string `json:"amount"`
	TransactionType string `json:"transaction_type"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	TransactionDate string `json:"transaction_date,omitempty"`
}

// ValidationError maps form field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid transaction: " + strings.Join(names, ", ")
}

// First returns the message of the first invalid field in form order.
func (e *ValidationError) First() string {
	for _, name := range fieldOrder {
		if msg, ok := e.Fields[name]; ok {
			return msg
		}
	}
	return ""
}

var fieldOrder = []string{"title", "amount", "transaction_type", "category", "transaction_date"}

// Validate checks a submitted transaction and normalises it. The amount is read in the
// formatter's locale and a missing date becomes today. All problems are reported together
// in a *ValidationError.
func Validate(dto TransactionDTO, today time.Time, formatter *currency.Formatter) (finance.Transaction, error) {
	fields := map[string]string{}
	required := map[string]string{
		"title":            dto.Title,
		"amount":           dto.Amount,
		"transaction_type": dto.TransactionType,
		"category":         dto.Category,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = RequiredMessage
		}
	}

	tx := finance.Transaction{
		Title:       strings.TrimSpace(dto.Title),
		Category:    strings.TrimSpace(dto.Category),
		Description: strings.TrimSpace(dto.Description),
	}

	if _, missing := fields["amount"]; !missing {
		amount, err := formatter.ParseAmount(dto.Amount)
		if err != nil {
			fields["amount"] = InvalidAmount
		} else {
			tx.Amount = amount.Round(2)
		}
	}
	if _, missing := fields["transaction_type"]; !missing {
		kind, err := finance.ParseKind(strings.ToLower(strings.TrimSpace(dto.TransactionType)))
		if err != nil {
			fields["transaction_type"] = InvalidType
		} else {
			tx.Type = kind
		}
	}

	if date := strings.TrimSpace(dto.TransactionDate); date == "" {
		tx.Date = finance.Date{Time: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)}
	} else if parsed, err := finance.ParseDate(date); err != nil {
		fields["transaction_date"] = InvalidDateMessage
	} else {
		tx.Date = parsed
	}

	if len(fields) > 0 {
		return finance.Transaction{}, &ValidationError{Fields: fields}
	}
	return tx, nil
}

// ToDTO renders a validated transaction with the amount fixed to two decimals.
func ToDTO(tx finance.Transaction) TransactionDTO {
	return TransactionDTO{
		Title:           tx.Title,
		Amount:          tx.Amount.StringFixed(2),
		TransactionType: string(tx.Type),
		Category:        tx.Category,
		Description:     tx.Description,
		TransactionDate: tx.Date.String(),
	}
}

// AsValidationError unwraps a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var validation *ValidationError
	ok := errors.As(err, &validation)
	return validation, ok
}
