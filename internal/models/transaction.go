package models

import (
	"strings"

	apperrors "github.com/hissterical/MindfulPay/internal/errors"
	"github.com/hissterical/MindfulPay/internal/money"
	"github.com/hissterical/MindfulPay/internal/uuid"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TagEmergency marks transactions recorded through an emergency override.
const TagEmergency = "emergency"

// EmergencyPrefix is prepended to the description of override transactions.
const EmergencyPrefix = "[EMERGENCY] "

// Transaction represents a financial transaction in the ledger
type Transaction struct {
	ID          string          `json:"id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Merchant    string          `json:"merchant,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// TransactionInput carries the caller-supplied fields of a new transaction.
type TransactionInput struct {
	Amount      int64
	Type        TransactionType
	Category    string
	Description string
	Date        Date
	Merchant    string
	Tags        []string
}

// NewTransaction validates in and returns a transaction with a fresh id.
func NewTransaction(in TransactionInput) (*Transaction, error) {
	if in.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must be greater than zero")
	}
	if in.Amount > money.MaxAmount {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount exceeds the maximum of ₹"+money.Format(money.MaxAmount))
	}
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	category := strings.TrimSpace(in.Category)
	switch in.Type {
	case TransactionTypeExpense:
		if !IsExpenseCategory(category) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown expense category: "+in.Category)
		}
	case TransactionTypeIncome:
		if !IsIncomeCategory(category) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown income category: "+in.Category)
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'")
	}

	return &Transaction{
		ID:          uuid.New(),
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Merchant:    strings.TrimSpace(in.Merchant),
		Tags:        in.Tags,
	}, nil
}

// HasTag reports whether the transaction carries tag.
func (t Transaction) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}
