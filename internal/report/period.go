// Package report computes period filters, totals, and category breakdowns
// over the local transaction store.
package report

import (
	"fmt"
	"time"

	"github.com/fincompar/fincompar/internal/model"
)

// Period selects a reporting window relative to the current time.
type Period string

// Period constants.
const (
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
	PeriodAll    Period = "all"
)

// DateRange is an inclusive date interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// PeriodRange resolves a period against now. Week is a rolling seven days;
// month and year are calendar-to-date. A nil return means no filtering.
func PeriodRange(period Period, now time.Time, custom *DateRange) (*DateRange, error) {
	switch period {
	case PeriodWeek:
		return &DateRange{Start: now.AddDate(0, 0, -7), End: now}, nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &DateRange{Start: start, End: now}, nil
	case PeriodYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &DateRange{Start: start, End: now}, nil
	case PeriodCustom:
		if custom == nil {
			return nil, fmt.Errorf("custom period requires a date range")
		}
		return custom, nil
	case PeriodAll, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown period: %s", period)
	}
}

// FilterByPeriod returns the transactions whose dates fall inside the
// resolved period.
func FilterByPeriod(transactions []model.Transaction, period Period, now time.Time, custom *DateRange) ([]model.Transaction, error) {
	r, err := PeriodRange(period, now, custom)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return transactions, nil
	}

	filtered := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Before(r.Start) || t.Date.After(r.End) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}
