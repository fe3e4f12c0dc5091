package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

func investCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Track investment contributions",
	}

	cmd.AddCommand(investAddCmd())
	cmd.AddCommand(investListCmd())
	cmd.AddCommand(investDeleteCmd())

	return cmd
}

func investAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record an investment contribution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[1])
			if err != nil || amount.Sign() <= 0 {
				return common.NewUserError(
					fmt.Sprintf("Invalid amount %q. Use a positive number like 1000.", args[1]),
					err)
			}

			investment := &model.Investment{
				ID:          uuid.NewString(),
				Description: args[0],
				Amount:      amount,
				Category:    model.InvestmentCategory(mustString(cmd, "category")),
				Platform:    mustString(cmd, "platform"),
				UserID:      mustString(cmd, "user"),
				Date:        time.Now(),
				CreatedAt:   time.Now(),
			}

			if dateStr := mustString(cmd, "date"); dateStr != "" {
				date, parseErr := time.Parse("2006-01-02", dateStr)
				if parseErr != nil {
					return common.NewUserError(
						fmt.Sprintf("Invalid date %q. Use the format 2006-01-02.", dateStr),
						parseErr)
				}
				investment.Date = date
			}

			if quantityStr := mustString(cmd, "quantity"); quantityStr != "" {
				quantity, parseErr := decimal.NewFromString(quantityStr)
				if parseErr != nil {
					return common.NewUserError(
						fmt.Sprintf("Invalid quantity %q.", quantityStr), parseErr)
				}
				investment.Quantity = &quantity
			}

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveInvestment(ctx, investment); err != nil {
				return fmt.Errorf("failed to save investment: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Recorded %s in %s", cli.FormatAmount(amount), investment.Category)))
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", string(model.InvestmentOther), "Asset category (Ações, FII, ETF, Cripto, ...)")
	cmd.Flags().String("platform", "", "Broker or platform name")
	cmd.Flags().StringP("user", "u", "", "User ID who made the contribution")
	cmd.Flags().StringP("date", "D", "", "Contribution date (format: 2006-01-02, default: today)")
	cmd.Flags().StringP("quantity", "q", "", "Number of units bought, when applicable")

	return cmd
}

func investListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List investment contributions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			investments, err := store.GetInvestments(ctx, mustString(cmd, "user"))
			if err != nil {
				return fmt.Errorf("failed to get investments: %w", err)
			}

			if len(investments) == 0 {
				slog.Info(cli.FormatWarning("No investments recorded"))
				return nil
			}

			var total decimal.Decimal
			var sb strings.Builder
			for _, inv := range investments {
				total = total.Add(inv.Amount)
				line := fmt.Sprintf("%s  %-30s %-14s %s",
					inv.Date.Format("2006-01-02"),
					truncate(inv.Description, 30),
					inv.Category,
					cli.FormatAmount(inv.Amount))
				if inv.Platform != "" {
					line += cli.SubtleStyle.Render("  @" + inv.Platform)
				}
				sb.WriteString(line + "\n")
			}
			sb.WriteString("\nTotal invested: " + cli.FormatAmount(total))

			slog.Info(cli.RenderBox("Investments", sb.String()))
			return nil
		},
	}

	cmd.Flags().StringP("user", "u", "", "Filter by user ID")

	return cmd
}

func investDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <investment-id>",
		Short: "Delete an investment record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteInvestment(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("Investment %s not found.", args[0]), err)
				}
				return fmt.Errorf("failed to delete investment: %w", err)
			}

			slog.Info(cli.FormatSuccess("Investment deleted"))
			return nil
		},
	}
}
