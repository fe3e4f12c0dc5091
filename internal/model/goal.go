package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a shared savings goal with per-person contribution tracking.
type Goal struct {
	CreatedAt     time.Time
	Deadline      *time.Time
	Contributions map[string]decimal.Decimal
	ID            string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
}

// Progress returns how far along the goal is, from 0 to 1. A zero target
// counts as complete.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 1
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Float64()
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
