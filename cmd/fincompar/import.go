package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/importer"
	"github.com/fincompar/fincompar/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <item-id>",
		Short: "Import transactions from a connected bank",
		Long: `Import bank statement transactions from a Pluggy connection.

This command walks every account under the given item, fetches its
transaction history page by page, categorizes each entry, and stores
the result in the local database. Credit card bill payments on checking
accounts are suppressed so the same spending is not counted twice.
Re-importing the same period is safe; duplicates are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("from", "f", "", "Import transactions from this date onward (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", importer.DefaultWindowDays, "Number of days to import (used when --from is not given)")
	cmd.Flags().StringP("payer", "p", "", "User ID to attribute imported transactions to")
	cmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")

	_ = viper.BindPFlag("import.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("import.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("import.payer", cmd.Flags().Lookup("payer"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemID := args[0]

	client, err := newPluggyClient()
	if err != nil {
		return err
	}

	window, err := parseImportWindow()
	if err != nil {
		return err
	}

	reconciler, err := newReconciler("pluggy")
	if err != nil {
		return err
	}

	payerID := viper.GetString("import.payer")

	slog.Info(cli.FormatTitle("Importing transactions from Pluggy"))

	svc := importer.New(client, reconciler, window)
	transactions, err := svc.ImportStatementTransactions(ctx, itemID, payerID)
	if err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Fetched %d transactions", len(transactions))))

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(transactions)
		return nil
	}

	store, err := newStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(transactions) > 0 {
		bar := progressbar.NewOptions(len(transactions),
			progressbar.OptionSetDescription("Saving transactions"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		// Save in batches so the bar reflects real progress.
		const batchSize = 50
		for start := 0; start < len(transactions); start += batchSize {
			end := start + batchSize
			if end > len(transactions) {
				end = len(transactions)
			}
			if err := store.SaveTransactions(ctx, transactions[start:end]); err != nil {
				return fmt.Errorf("failed to save transactions: %w", err)
			}
			_ = bar.Add(end - start)
		}
		_ = bar.Finish()
	}

	slog.Info(cli.FormatSuccess("Import complete!"))
	displayImportSummary(transactions)

	return nil
}

func parseImportWindow() (importer.Window, error) {
	var window importer.Window

	if fromStr := viper.GetString("import.from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return window, fmt.Errorf("invalid from date format: %w", err)
		}
		window.From = from
		return window, nil
	}

	window.Days = viper.GetInt("import.days")
	return window, nil
}

func displayImportSummary(transactions []model.Transaction) {
	if len(transactions) == 0 {
		slog.Info(cli.FormatWarning("No transactions in the selected window"))
		return
	}

	byCategory := make(map[model.Category]int)
	var income, expenses int
	for _, tx := range transactions {
		byCategory[tx.Category]++
		if tx.Type == model.TypeIncome {
			income++
		} else {
			expenses++
		}
	}

	content := fmt.Sprintf("Transactions: %d\nIncome: %d\nExpenses: %d\n\nBy category:\n",
		len(transactions), income, expenses)
	seen := make(map[model.Category]bool)
	for _, category := range append(model.ExpenseCategories(), model.IncomeCategories()...) {
		if seen[category] {
			continue
		}
		seen[category] = true
		if count := byCategory[category]; count > 0 {
			content += fmt.Sprintf("  %s: %d\n", category, count)
		}
	}

	slog.Info(cli.RenderBox("Import Summary", content))
}
