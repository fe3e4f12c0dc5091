package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/model"
	"github.com/fincompar/fincompar/internal/report"
	"github.com/fincompar/fincompar/internal/service"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions",
		RunE:  runHistory,
	}

	cmd.Flags().StringP("period", "P", string(report.PeriodMonth), "Period to show (week, month, year, all)")
	cmd.Flags().StringP("payer", "p", "", "Filter by user ID")
	cmd.Flags().StringP("type", "t", "", "Filter by type (income, expense)")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of transactions to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := newStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	filter := service.TransactionFilter{
		PayerID: mustString(cmd, "payer"),
		Type:    model.TransactionType(mustString(cmd, "type")),
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")

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

	if len(transactions) == 0 {
		slog.Info(cli.FormatWarning("No transactions found"))
		return nil
	}

	var sb strings.Builder
	for _, tx := range transactions {
		marker := ""
		if tx.IsRefund {
			marker = " ↩"
		}
		sb.WriteString(fmt.Sprintf("%s  %-40s %-18s %s%s\n",
			tx.DateString(),
			truncate(tx.Description, 40),
			tx.Category,
			cli.FormatAmount(tx.SignedAmount()),
			marker))
	}

	slog.Info(cli.RenderBox(fmt.Sprintf("Transactions (%d)", len(transactions)), sb.String()))
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
