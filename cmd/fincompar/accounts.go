package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/cli"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts <item-id>",
		Short: "List accounts under a bank connection",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccounts,
	}
}

func runAccounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemID := args[0]

	client, err := newPluggyClient()
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Fetching accounts"))

	accounts, err := client.ListAccounts(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		slog.Info(cli.FormatWarning("No accounts found"))
		return nil
	}

	content := fmt.Sprintf("Found %d accounts:\n\n", len(accounts))
	for i, account := range accounts {
		kind := "checking"
		if account.IsCreditCard() {
			kind = "credit card"
		}
		content += fmt.Sprintf("%d. %s (%s, %s)\n   %s\n", i+1, account.Name, account.Subtype, kind, account.ID)
	}

	slog.Info(cli.RenderBox("Available Accounts", content))
	return nil
}
