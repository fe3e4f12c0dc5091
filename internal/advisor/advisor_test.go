package advisor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompar/fincompar/internal/model"
)

func TestBuildSummaryPrompt(t *testing.T) {
	transactions := []model.Transaction{
		{
			Description: "IFOOD *RESTAURANTE",
			Category:    model.CategoryFood,
			Type:        model.TypeExpense,
			Amount:      decimal.RequireFromString("35.90"),
			Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Description: "SALÁRIO",
			Category:    model.CategoryPrimaryJob,
			Type:        model.TypeIncome,
			Amount:      decimal.RequireFromString("5000"),
			Date:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	goals := []model.Goal{
		{
			Name:          "Viagem",
			TargetAmount:  decimal.RequireFromString("10000"),
			CurrentAmount: decimal.RequireFromString("2500"),
		},
	}

	prompt, err := buildSummaryPrompt(transactions, goals)
	require.NoError(t, err)

	assert.Contains(t, prompt, "IFOOD *RESTAURANTE")
	assert.Contains(t, prompt, "Alimentação")
	assert.Contains(t, prompt, "35.9")
	assert.Contains(t, prompt, "2026-03-10")
	assert.Contains(t, prompt, "Viagem")
	assert.Contains(t, prompt, "10000")
	assert.Contains(t, prompt, "português")
}

func TestBuildSummaryPrompt_LimitsTransactions(t *testing.T) {
	transactions := make([]model.Transaction, 10)
	for i := range transactions {
		transactions[i] = model.Transaction{
			Description: "tx-" + string(rune('a'+i)),
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	prompt, err := buildSummaryPrompt(transactions, nil)
	require.NoError(t, err)

	assert.Contains(t, prompt, "tx-a")
	assert.Contains(t, prompt, "tx-e")
	assert.NotContains(t, prompt, "tx-f")
}

func TestBuildSummaryPrompt_Empty(t *testing.T) {
	prompt, err := buildSummaryPrompt(nil, nil)
	require.NoError(t, err)

	// Empty slices encode as [], not null, so the model sees valid JSON.
	assert.Equal(t, 2, strings.Count(prompt, "[]"))
}

func TestNewGeminiAdvisor_RequiresKey(t *testing.T) {
	_, err := NewGeminiAdvisor(context.Background(), "")
	require.Error(t, err)
}
