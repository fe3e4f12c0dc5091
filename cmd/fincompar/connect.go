package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/config"
	"github.com/fincompar/fincompar/internal/pluggy"
)

func connectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Manage bank connections",
	}

	cmd.AddCommand(connectTokenCmd())
	cmd.AddCommand(connectStatusCmd())
	cmd.AddCommand(connectRemoveCmd())

	return cmd
}

func connectTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Create a connect token for linking a new bank",
		Long: `Create a short-lived connect token.

The token is used by the Pluggy Connect widget to link a new bank
account. Paste it into the widget, complete the flow, and note the
resulting item ID for use with the import command.`,
		RunE: runConnectToken,
	}

	cmd.Flags().StringP("user", "u", "", "User ID to associate with the connection")
	_ = viper.BindPFlag("connect.user", cmd.Flags().Lookup("user"))

	return cmd
}

func runConnectToken(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := newPluggyClient()
	if err != nil {
		return err
	}

	token, err := client.CreateConnectToken(ctx, viper.GetString("connect.user"))
	if err != nil {
		return fmt.Errorf("failed to create connect token: %w", err)
	}

	slog.Info(cli.FormatSuccess("Connect token created"))
	fmt.Println(token)
	return nil
}

func connectStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <item-id>",
		Short: "Show the status of a bank connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newPluggyClient()
			if err != nil {
				return err
			}

			item, err := client.GetItem(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			content := fmt.Sprintf("Bank: %s\nStatus: %s\nCreated: %s\nUpdated: %s",
				item.Connector.Name,
				item.Status,
				item.CreatedAt.Format("2006-01-02 15:04"),
				item.UpdatedAt.Format("2006-01-02 15:04"))
			slog.Info(cli.RenderBox("Connection "+item.ID, content))
			return nil
		},
	}
}

func connectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a bank connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newPluggyClient()
			if err != nil {
				return err
			}

			if err := client.DeleteItem(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete item: %w", err)
			}

			slog.Info(cli.FormatSuccess("Connection removed"))
			return nil
		},
	}
}

func newPluggyClient() (*pluggy.Client, error) {
	pluggyConfig, err := config.LoadPluggyConfig()
	if err != nil {
		return nil, err
	}

	client, err := pluggy.NewClient(*pluggyConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pluggy client: %w", err)
	}

	return client, nil
}
