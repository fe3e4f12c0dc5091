package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/fincompar/fincompar/internal/model"
)

const (
	summaryModel = "gemini-3-flash-preview"
	ttsModel     = "gemini-2.5-flash-preview-tts"
	ttsVoice     = "Kore"

	// The prompt only needs a taste of recent activity
	maxPromptTransactions = 5
)

// GeminiAdvisor implements Advisor against the Gemini API.
type GeminiAdvisor struct {
	client *genai.Client
	logger *slog.Logger
}

// NewGeminiAdvisor creates an advisor with the given API key.
func NewGeminiAdvisor(ctx context.Context, apiKey string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiAdvisor{
		client: client,
		logger: slog.Default().With("component", "advisor"),
	}, nil
}

// FinancialSummary produces a short motivational summary in Portuguese
// over the couple's recent transactions and goals.
func (a *GeminiAdvisor) FinancialSummary(ctx context.Context, transactions []model.Transaction, goals []model.Goal) (string, error) {
	prompt, err := buildSummaryPrompt(transactions, goals)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, summaryModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}

// AudioTip renders the given text as speech and returns raw PCM audio.
func (a *GeminiAdvisor) AudioTip(ctx context.Context, text string) ([]byte, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: "Diga com um tom calmo e educativo: " + text}},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: ttsVoice},
			},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, ttsModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate audio: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no audio data in response")
}

// buildSummaryPrompt serializes a sample of recent activity into the
// Portuguese prompt.
func buildSummaryPrompt(transactions []model.Transaction, goals []model.Goal) (string, error) {
	sample := transactions
	if len(sample) > maxPromptTransactions {
		sample = sample[:maxPromptTransactions]
	}

	type promptTransaction struct {
		Description string `json:"description"`
		Category    string `json:"category"`
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		Date        string `json:"date"`
	}
	recent := make([]promptTransaction, 0, len(sample))
	for _, t := range sample {
		recent = append(recent, promptTransaction{
			Description: t.Description,
			Category:    string(t.Category),
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
			Date:        t.DateString(),
		})
	}

	type promptGoal struct {
		Name    string `json:"name"`
		Target  string `json:"target"`
		Current string `json:"current"`
	}
	goalList := make([]promptGoal, 0, len(goals))
	for _, g := range goals {
		goalList = append(goalList, promptGoal{
			Name:    g.Name,
			Target:  g.TargetAmount.String(),
			Current: g.CurrentAmount.String(),
		})
	}

	recentJSON, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}
	goalsJSON, err := json.Marshal(goalList)
	if err != nil {
		return "", fmt.Errorf("failed to encode goals: %w", err)
	}

	return fmt.Sprintf(`Analise os seguintes dados financeiros de um casal e forneça um resumo motivador e curto (máximo 150 palavras) em português.

Transações Recentes: %s
Metas Atuais: %s

Destaque a categoria com mais gastos e como eles estão indo em direção às metas.`,
		recentJSON, goalsJSON), nil
}

// Ensure GeminiAdvisor implements the Advisor interface.
var _ Advisor = (*GeminiAdvisor)(nil)
