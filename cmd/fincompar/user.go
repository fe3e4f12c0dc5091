package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fincompar/fincompar/internal/cli"
	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and partner linking",
	}

	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userShowCmd())
	cmd.AddCommand(userLinkCmd())

	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			user := &model.User{
				ID:    uuid.NewString(),
				Name:  args[0],
				Email: mustString(cmd, "email"),
			}

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveUser(ctx, user); err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Created user %q (%s)", user.Name, user.ID)))
			return nil
		},
	}

	cmd.Flags().String("email", "", "User email")

	return cmd
}

func userShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := store.GetUser(ctx, args[0])
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("User %s not found.", args[0]), err)
				}
				return fmt.Errorf("failed to get user: %w", err)
			}

			content := fmt.Sprintf("Name: %s\nEmail: %s", user.Name, user.Email)
			if user.HasPartner() {
				content += fmt.Sprintf("\nPartner: %s", user.PartnerID)
			}
			slog.Info(cli.RenderBox("User "+user.ID, content))
			return nil
		},
	}
}

func userLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <user-id> <partner-id>",
		Short: "Link two users as partners",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.LinkPartner(ctx, args[0], args[1]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("Both users must exist before linking.", err)
				}
				return fmt.Errorf("failed to link partners: %w", err)
			}

			slog.Info(cli.FormatSuccess("Partners linked"))
			return nil
		},
	}
}
