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

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage shared savings goals",
	}

	cmd.AddCommand(goalsAddCmd())
	cmd.AddCommand(goalsListCmd())
	cmd.AddCommand(goalsContributeCmd())
	cmd.AddCommand(goalsDeleteCmd())

	return cmd
}

func goalsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <target-amount>",
		Short: "Create a new savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := decimal.NewFromString(args[1])
			if err != nil || target.Sign() <= 0 {
				return common.NewUserError(
					fmt.Sprintf("Invalid target amount %q. Use a positive number like 5000.", args[1]),
					err)
			}

			goal := &model.Goal{
				ID:            uuid.NewString(),
				Name:          args[0],
				TargetAmount:  target,
				Contributions: make(map[string]decimal.Decimal),
				CreatedAt:     time.Now(),
			}

			if deadlineStr := mustString(cmd, "deadline"); deadlineStr != "" {
				deadline, parseErr := time.Parse("2006-01-02", deadlineStr)
				if parseErr != nil {
					return common.NewUserError(
						fmt.Sprintf("Invalid deadline %q. Use the format 2006-01-02.", deadlineStr),
						parseErr)
				}
				goal.Deadline = &deadline
			}

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveGoal(ctx, goal); err != nil {
				return fmt.Errorf("failed to save goal: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Created goal %q (%s)", goal.Name, goal.ID)))
			return nil
		},
	}

	cmd.Flags().String("deadline", "", "Target date for the goal (format: 2006-01-02)")

	return cmd
}

func goalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			if len(goals) == 0 {
				slog.Info(cli.FormatWarning("No goals yet. Create one with: fincompar goals add"))
				return nil
			}

			var sb strings.Builder
			for _, goal := range goals {
				sb.WriteString(fmt.Sprintf("%s %s\n", cli.GoalIcon, cli.StyleTitle(goal.Name)))
				sb.WriteString(fmt.Sprintf("   %s of %s (%.0f%%)\n",
					cli.FormatAmount(goal.CurrentAmount),
					cli.FormatAmount(goal.TargetAmount),
					goal.Progress()*100))
				if goal.Deadline != nil {
					sb.WriteString(fmt.Sprintf("   Deadline: %s\n", goal.Deadline.Format("2006-01-02")))
				}
				for userID, amount := range goal.Contributions {
					sb.WriteString(fmt.Sprintf("   %s contributed %s\n", userID, cli.FormatAmount(amount)))
				}
				sb.WriteString(cli.SubtleStyle.Render("   "+goal.ID) + "\n\n")
			}

			slog.Info(cli.RenderBox("Savings Goals", strings.TrimRight(sb.String(), "\n")))
			return nil
		},
	}
}

func goalsContributeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribute <goal-id> <amount>",
		Short: "Contribute money toward a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[1])
			if err != nil || amount.Sign() <= 0 {
				return common.NewUserError(
					fmt.Sprintf("Invalid amount %q. Use a positive number like 200.", args[1]),
					err)
			}

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			userID := mustString(cmd, "user")
			if err := store.ContributeToGoal(ctx, args[0], userID, amount); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(
						fmt.Sprintf("Goal %s not found. List goals with: fincompar goals list", args[0]),
						err)
				}
				return fmt.Errorf("failed to contribute: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Contributed %s", cli.FormatAmount(amount))))
			return nil
		},
	}

	cmd.Flags().StringP("user", "u", "", "User ID making the contribution")

	return cmd
}

func goalsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <goal-id>",
		Short: "Delete a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := newStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteGoal(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("Goal %s not found.", args[0]), err)
				}
				return fmt.Errorf("failed to delete goal: %w", err)
			}

			slog.Info(cli.FormatSuccess("Goal deleted"))
			return nil
		},
	}
}
