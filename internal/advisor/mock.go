package advisor

import (
	"context"

	"github.com/fincompar/fincompar/internal/model"
)

// MockAdvisor implements Advisor for testing.
type MockAdvisor struct {
	FinancialSummaryFn func(ctx context.Context, transactions []model.Transaction, goals []model.Goal) (string, error)
	AudioTipFn         func(ctx context.Context, text string) ([]byte, error)

	FinancialSummaryCalls int
	AudioTipCalls         int
}

func (m *MockAdvisor) FinancialSummary(ctx context.Context, transactions []model.Transaction, goals []model.Goal) (string, error) {
	m.FinancialSummaryCalls++
	if m.FinancialSummaryFn != nil {
		return m.FinancialSummaryFn(ctx, transactions, goals)
	}
	return "mock summary", nil
}

func (m *MockAdvisor) AudioTip(ctx context.Context, text string) ([]byte, error) {
	m.AudioTipCalls++
	if m.AudioTipFn != nil {
		return m.AudioTipFn(ctx, text)
	}
	return []byte("mock audio"), nil
}

// Reset clears call tracking.
func (m *MockAdvisor) Reset() {
	m.FinancialSummaryCalls = 0
	m.AudioTipCalls = 0
}

var _ Advisor = (*MockAdvisor)(nil)
