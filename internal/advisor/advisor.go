// Package advisor generates short financial summaries and spoken tips
// using the Gemini API.
package advisor

import (
	"context"

	"github.com/fincompar/fincompar/internal/model"
)

// Advisor defines the contract for AI-generated content. This interface
// allows for easy mocking in tests.
type Advisor interface {
	FinancialSummary(ctx context.Context, transactions []model.Transaction, goals []model.Goal) (string, error)
	AudioTip(ctx context.Context, text string) ([]byte, error)
}

// FallbackSummary is shown when the summary cannot be generated.
const FallbackSummary = "Não foi possível gerar seu resumo inteligente no momento. Continue economizando!"
