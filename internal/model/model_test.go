package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("50")

	income := Transaction{Type: TypeIncome, Amount: amount}
	assert.True(t, income.SignedAmount().Equal(amount))

	expense := Transaction{Type: TypeExpense, Amount: amount}
	assert.True(t, expense.SignedAmount().Equal(amount.Neg()))

	refund := Transaction{Type: TypeExpense, Amount: amount, IsRefund: true}
	assert.True(t, refund.SignedAmount().Equal(amount))
}

func TestTransaction_DateString(t *testing.T) {
	tx := Transaction{Date: time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2026-03-05", tx.DateString())
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		current string
		want    float64
	}{
		{name: "partway", target: "1000", current: "250", want: 0.25},
		{name: "complete", target: "1000", current: "1000", want: 1},
		{name: "overshoot clamps to one", target: "1000", current: "1500", want: 1},
		{name: "zero target counts as complete", target: "0", current: "0", want: 1},
		{name: "nothing saved", target: "1000", current: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{
				TargetAmount:  decimal.RequireFromString(tt.target),
				CurrentAmount: decimal.RequireFromString(tt.current),
			}
			assert.InDelta(t, tt.want, g.Progress(), 0.001)
		})
	}
}

func TestCategorySets(t *testing.T) {
	for _, c := range []Category{CategoryFood, CategoryHousing, CategoryLeisure, CategoryTransport, CategoryHealth, CategoryEducation} {
		assert.True(t, IsExpenseCategory(c), "%s is an expense category", c)
		assert.False(t, IsIncomeCategory(c), "%s is not an income category", c)
	}

	for _, c := range []Category{CategoryPrimaryJob, CategoryClients, CategoryFreelance} {
		assert.True(t, IsIncomeCategory(c), "%s is an income category", c)
		assert.False(t, IsExpenseCategory(c), "%s is not an expense category", c)
	}

	// Outros belongs to neither set; direction comes from the amount sign.
	assert.False(t, IsExpenseCategory(CategoryOther))
	assert.False(t, IsIncomeCategory(CategoryOther))
}

func TestUser_HasPartner(t *testing.T) {
	assert.False(t, (&User{}).HasPartner())
	assert.True(t, (&User{PartnerID: "bob"}).HasPartner())
}
