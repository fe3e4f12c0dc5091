// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is money in or money out.
type TransactionType string

const (
	// TypeIncome represents money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money going out.
	TypeExpense TransactionType = "expense"
)

// PaymentMethod identifies how a transaction was settled.
type PaymentMethod string

// Payment method constants.
const (
	MethodCredit   PaymentMethod = "credit"
	MethodChecking PaymentMethod = "checking"
	MethodPix      PaymentMethod = "pix"
	MethodOther    PaymentMethod = "other"
)

// Transaction represents one financial movement owned by the application.
// Amount is always an unsigned magnitude; direction is encoded by Type and,
// for credit-card statements, IsRefund.
type Transaction struct {
	Date          time.Time
	CreatedAt     time.Time
	ID            string
	Description   string
	Category      Category
	PayerID       string
	Type          TransactionType
	PaymentMethod PaymentMethod
	Amount        decimal.Decimal
	IsRefund      bool
	Shared        bool
}

// DateString returns the transaction date normalized to YYYY-MM-DD.
func (t *Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}

// SignedAmount returns the amount with income positive and expenses
// negative. Refunds count as positive since they reduce card spending.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeIncome || t.IsRefund {
		return t.Amount
	}
	return t.Amount.Neg()
}
