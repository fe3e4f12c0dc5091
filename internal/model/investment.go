package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a position the user holds outside regular accounts,
// such as stocks, funds, or crypto.
type Investment struct {
	Date        time.Time
	CreatedAt   time.Time
	Quantity    *decimal.Decimal
	ID          string
	Description string
	Platform    string
	UserID      string
	Category    InvestmentCategory
	Amount      decimal.Decimal
}
