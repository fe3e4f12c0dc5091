package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Add a transaction manually",
		Long: `Add a transaction that was not captured by an import, such as a
cash payment. Amount is a positive number; direction follows the
category, or the --type flag for "Outros".`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", string(model.CategoryOther), "Transaction category")
	cmd.Flags().StringP("type", "t", "", "Transaction type (income, expense) when the category allows both")
	cmd.Flags().StringP("date", "D", "", "Transaction date (format: 2006-01-02, default: today)")
	cmd.Flags().StringP("payer", "p", "", "User ID who made the transaction")
	cmd.Flags().StringP("method", "m", string(model.MethodOther), "Payment method (credit, checking, pix, other)")
	cmd.Flags().Bool("shared", false, "Mark the transaction as shared between partners")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	description := args[0]

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Invalid amount %q. Use a plain number like 42.50.", args[1]),
			err)
	}
	if amount.Sign() <= 0 {
		return common.NewUserError("Amount must be positive; use --type to set the direction.", nil)
	}

	category := model.Category(mustString(cmd, "category"))
	txType, err := resolveType(category, mustString(cmd, "type"))
	if err != nil {
		return err
	}

	date := time.Now()
	if dateStr := mustString(cmd, "date"); dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return common.NewUserError(
				fmt.Sprintf("Invalid date %q. Use the format 2006-01-02.", dateStr),
				err)
		}
	}

	shared, _ := cmd.Flags().GetBool("shared")

	tx := model.Transaction{
		ID:            "manual_" + uuid.NewString(),
		Date:          date,
		CreatedAt:     time.Now(),
		Description:   description,
		Category:      category,
		PayerID:       mustString(cmd, "payer"),
		Type:          txType,
		PaymentMethod: model.PaymentMethod(mustString(cmd, "method")),
		Amount:        amount,
		Shared:        shared,
	}

	store, err := newStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, []model.Transaction{tx}); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Added %s %s (%s)", description, cli.FormatAmount(tx.SignedAmount()), category)))
	return nil
}

// resolveType decides the transaction direction from the category, or from
// the explicit type flag when the category does not pin it down.
func resolveType(category model.Category, typeFlag string) (model.TransactionType, error) {
	switch {
	case model.IsExpenseCategory(category):
		return model.TypeExpense, nil
	case model.IsIncomeCategory(category):
		return model.TypeIncome, nil
	}

	switch typeFlag {
	case string(model.TypeIncome):
		return model.TypeIncome, nil
	case string(model.TypeExpense), "":
		return model.TypeExpense, nil
	default:
		return "", common.NewUserError(
			fmt.Sprintf("Invalid type %q. Use income or expense.", typeFlag), nil)
	}
}

func mustString(cmd *cobra.Command, flag string) string {
	v, _ := cmd.Flags().GetString(flag)
	return v
}
