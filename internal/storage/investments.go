package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

// SaveInvestment inserts or replaces an investment.
func (s *SQLiteStorage) SaveInvestment(ctx context.Context, investment *model.Investment) error {
	if investment == nil || investment.ID == "" {
		return fmt.Errorf("investment with an ID is required")
	}

	var quantity any
	if investment.Quantity != nil {
		quantity = investment.Quantity.String()
	}

	createdAt := investment.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO investments (
			id, amount, description, category, platform, quantity, date, user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, investment.ID, investment.Amount.String(), investment.Description,
		string(investment.Category), investment.Platform, quantity,
		investment.Date.Format("2006-01-02"), investment.UserID, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save investment %s: %w", investment.ID, err)
	}

	return nil
}

// GetInvestments returns a user's investments, newest first. An empty
// userID returns everyone's.
func (s *SQLiteStorage) GetInvestments(ctx context.Context, userID string) ([]model.Investment, error) {
	query := `
		SELECT id, amount, description, category, platform, quantity, date, user_id, created_at
		FROM investments`
	var args []any

	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var investments []model.Investment
	for rows.Next() {
		var inv model.Investment
		var amountStr, category, dateStr string
		var quantity sql.NullString

		err := rows.Scan(&inv.ID, &amountStr, &inv.Description, &category,
			&inv.Platform, &quantity, &dateStr, &inv.UserID, &inv.CreatedAt)
		if err != nil {
			return nil, err
		}

		if inv.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amountStr, err)
		}
		if inv.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", dateStr, err)
		}
		if quantity.Valid {
			q, err := decimal.NewFromString(quantity.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse stored quantity %q: %w", quantity.String, err)
			}
			inv.Quantity = &q
		}
		inv.Category = model.InvestmentCategory(category)

		investments = append(investments, inv)
	}

	return investments, rows.Err()
}

// DeleteInvestment removes an investment.
func (s *SQLiteStorage) DeleteInvestment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM investments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete investment %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s: %w", id, common.ErrNotFound)
	}

	return nil
}
