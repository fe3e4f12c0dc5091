package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/advisor"
	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/config"
	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/report"
	"github.com/fincompar/fincompar/internal/service"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and category breakdown",
		RunE:  runSummary,
	}

	cmd.Flags().StringP("period", "P", string(report.PeriodMonth), "Period to summarize (week, month, year, all)")
	cmd.Flags().StringP("payer", "p", "", "Filter by user ID")
	cmd.Flags().Bool("ai", false, "Include an AI-generated summary (requires Gemini API key)")
	cmd.Flags().String("audio", "", "Write the AI summary as speech audio to this file (implies --ai)")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := newStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	filter := service.TransactionFilter{PayerID: mustString(cmd, "payer")}
	period := report.Period(mustString(cmd, "period"))
	if dateRange, rangeErr := report.PeriodRange(period, time.Now(), nil); rangeErr != nil {
		return rangeErr
	} else if dateRange != nil {
		filter.StartDate = &dateRange.Start
		filter.EndDate = &dateRange.End
	}

	transactions, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	summary := report.Summarize(transactions)

	content := fmt.Sprintf("Income:   %s\nExpenses: %s\nBalance:  %s\nTransactions: %d",
		cli.FormatAmount(summary.TotalIncome),
		cli.FormatAmount(summary.TotalExpenses.Neg()),
		cli.FormatAmount(summary.Balance),
		summary.Count)
	slog.Info(cli.RenderBox(fmt.Sprintf("Summary (%s)", period), content))

	if breakdown := report.CategoryBreakdown(transactions, model.TypeExpense); len(breakdown) > 0 {
		var sb strings.Builder
		for _, slice := range breakdown {
			sb.WriteString(fmt.Sprintf("%-18s %s (%.1f%%)\n",
				slice.Category, cli.FormatAmount(slice.Total.Neg()), slice.Percentage))
		}
		slog.Info(cli.RenderBox("Expenses by Category", sb.String()))
	}

	audioPath := mustString(cmd, "audio")
	wantAI, _ := cmd.Flags().GetBool("ai")
	if wantAI || audioPath != "" {
		return runAISummary(ctx, store, transactions, audioPath)
	}

	return nil
}

func runAISummary(ctx context.Context, store service.Storage, transactions []model.Transaction, audioPath string) error {
	apiKey := config.LoadGeminiAPIKey()
	if apiKey == "" {
		slog.Warn(cli.FormatWarning("No Gemini API key configured; skipping AI summary"))
		fmt.Println(advisor.FallbackSummary)
		return nil
	}

	gemini, err := advisor.NewGeminiAdvisor(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create advisor: %w", err)
	}

	goals, err := store.GetGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to get goals: %w", err)
	}

	text, err := gemini.FinancialSummary(ctx, transactions, goals)
	if err != nil {
		slog.Warn("AI summary failed", "error", err)
		fmt.Println(advisor.FallbackSummary)
		return nil
	}

	slog.Info(cli.RenderBox("AI Summary", text))

	if audioPath != "" {
		audio, err := gemini.AudioTip(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to generate audio: %w", err)
		}
		if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
		slog.Info(cli.FormatSuccess("Audio summary written to " + audioPath))
	}

	return nil
}
