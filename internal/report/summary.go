package report

import (
	"github.com/shopspring/decimal"

	"github.com/fincompar/fincompar/internal/model"
)

// Summary aggregates a set of transactions.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	Count         int
}

// Summarize totals income and expenses. Credit-card refunds reduce the
// expense total rather than counting as income.
func Summarize(transactions []model.Transaction) Summary {
	s := Summary{Count: len(transactions)}

	for _, t := range transactions {
		switch {
		case t.Type == model.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case t.IsRefund:
			s.TotalExpenses = s.TotalExpenses.Sub(t.Amount)
		default:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// Slice is one donut-chart slice: a category's total with its share of the
// whole expressed as a percentage and as arc geometry.
type Slice struct {
	Category   model.Category
	Total      decimal.Decimal
	Percentage float64
	StartAngle float64
	Angle      float64
}

// chartStartAngle puts the first slice at twelve o'clock.
const chartStartAngle = -90.0

// CategoryBreakdown sums the given transaction type per category and
// computes each category's slice of the donut chart. Categories with no
// positive total are omitted. Refunds subtract from their category.
func CategoryBreakdown(transactions []model.Transaction, txType model.TransactionType) []Slice {
	var categories []model.Category
	if txType == model.TypeExpense {
		categories = model.ExpenseCategories()
	} else {
		categories = model.IncomeCategories()
	}

	totals := make(map[model.Category]decimal.Decimal, len(categories))
	for _, t := range transactions {
		if t.Type != txType {
			continue
		}
		if t.IsRefund {
			totals[t.Category] = totals[t.Category].Sub(t.Amount)
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	var total decimal.Decimal
	var slices []Slice
	for _, c := range categories {
		v := totals[c]
		if !v.IsPositive() {
			continue
		}
		total = total.Add(v)
		slices = append(slices, Slice{Category: c, Total: v})
	}

	if total.IsZero() {
		return nil
	}

	currentAngle := chartStartAngle
	for i := range slices {
		share, _ := slices[i].Total.Div(total).Float64()
		slices[i].Percentage = share * 100
		slices[i].StartAngle = currentAngle
		slices[i].Angle = share * 360
		currentAngle += slices[i].Angle
	}

	return slices
}
