package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <file>",
		Short: "Import transactions from an OFX file",
		Long: `Import transactions from an OFX statement file exported by your bank.

Bank and credit card statements are both supported. Entries run through
the same categorization pipeline as aggregator imports, so bill payments
on checking statements are suppressed and card refunds are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("payer", "p", "", "User ID to attribute imported transactions to")
	cmd.Flags().Bool("dry-run", false, "Show what would be imported without saving")

	_ = viper.BindPFlag("import_ofx.payer", cmd.Flags().Lookup("payer"))
	_ = viper.BindPFlag("import_ofx.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filePath := args[0]

	file, err := os.Open(filePath)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("Could not open %s. Check that the file exists and is readable.", filePath),
			err)
	}
	defer func() { _ = file.Close() }()

	reconciler, err := newReconciler("ofx")
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Importing OFX file"), "file", filePath)

	parser := ofx.NewParser(reconciler)
	transactions, err := parser.ParseFile(ctx, file, viper.GetString("import_ofx.payer"))
	if err != nil {
		return fmt.Errorf("failed to parse OFX file: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Parsed %d transactions", len(transactions))))

	if viper.GetBool("import_ofx.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(transactions)
		return nil
	}

	if len(transactions) == 0 {
		slog.Info(cli.FormatWarning("No transactions found in file"))
		return nil
	}

	store, err := newStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info(cli.FormatSuccess("Import complete!"))
	displayImportSummary(transactions)

	return nil
}
