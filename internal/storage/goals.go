package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

// SaveGoal inserts or replaces a goal.
func (s *SQLiteStorage) SaveGoal(ctx context.Context, goal *model.Goal) error {
	if goal == nil || goal.ID == "" {
		return fmt.Errorf("goal with an ID is required")
	}

	contributions, err := marshalContributions(goal.Contributions)
	if err != nil {
		return err
	}

	var deadline any
	if goal.Deadline != nil {
		deadline = goal.Deadline.Format("2006-01-02")
	}

	createdAt := goal.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO goals (
			id, name, target_amount, current_amount, contributions, deadline, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, goal.ID, goal.Name, goal.TargetAmount.String(), goal.CurrentAmount.String(),
		contributions, deadline, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", goal.ID, err)
	}

	return nil
}

// GetGoals returns all goals, newest first.
func (s *SQLiteStorage) GetGoals(ctx context.Context) ([]model.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_amount, current_amount, contributions, deadline, created_at
		FROM goals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}

	return goals, rows.Err()
}

// GetGoalByID returns the goal with the given ID.
func (s *SQLiteStorage) GetGoalByID(ctx context.Context, id string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount, current_amount, contributions, deadline, created_at
		FROM goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s: %w", id, common.ErrNotFound)
	}
	return g, err
}

// DeleteGoal removes a goal.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// ContributeToGoal adds an amount to both the goal total and the
// contributor's share of it, atomically.
func (s *SQLiteStorage) ContributeToGoal(ctx context.Context, goalID, userID string, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return fmt.Errorf("contribution must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentStr, contributionsStr string
	err = tx.QueryRowContext(ctx,
		"SELECT current_amount, contributions FROM goals WHERE id = ?", goalID).
		Scan(&currentStr, &contributionsStr)
	if err == sql.ErrNoRows {
		return fmt.Errorf("goal %s: %w", goalID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load goal %s: %w", goalID, err)
	}

	current, err := decimal.NewFromString(currentStr)
	if err != nil {
		return fmt.Errorf("failed to parse stored amount %q: %w", currentStr, err)
	}

	contributions, err := unmarshalContributions(contributionsStr)
	if err != nil {
		return err
	}
	contributions[userID] = contributions[userID].Add(amount)

	encoded, err := marshalContributions(contributions)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE goals SET current_amount = ?, contributions = ? WHERE id = ?",
		current.Add(amount).String(), encoded, goalID)
	if err != nil {
		return fmt.Errorf("failed to update goal %s: %w", goalID, err)
	}

	return tx.Commit()
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var g model.Goal
	var targetStr, currentStr, contributionsStr string
	var deadline sql.NullString

	err := row.Scan(&g.ID, &g.Name, &targetStr, &currentStr, &contributionsStr, &deadline, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	if g.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", targetStr, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", currentStr, err)
	}
	if g.Contributions, err = unmarshalContributions(contributionsStr); err != nil {
		return nil, err
	}

	if deadline.Valid && deadline.String != "" {
		d, err := time.Parse("2006-01-02", deadline.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored deadline %q: %w", deadline.String, err)
		}
		g.Deadline = &d
	}

	return &g, nil
}

func marshalContributions(contributions map[string]decimal.Decimal) (string, error) {
	if contributions == nil {
		contributions = map[string]decimal.Decimal{}
	}
	encoded, err := json.Marshal(contributions)
	if err != nil {
		return "", fmt.Errorf("failed to encode contributions: %w", err)
	}
	return string(encoded), nil
}

func unmarshalContributions(encoded string) (map[string]decimal.Decimal, error) {
	contributions := map[string]decimal.Decimal{}
	if encoded == "" {
		return contributions, nil
	}
	if err := json.Unmarshal([]byte(encoded), &contributions); err != nil {
		return nil, fmt.Errorf("failed to decode contributions: %w", err)
	}
	return contributions, nil
}
