package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/model"
)

// SaveUser inserts or replaces a user profile.
func (s *SQLiteStorage) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("user with an ID is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, name, email, partner_id, avatar)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, user.PartnerID, user.Avatar)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}

	return nil
}

// GetUser returns the user with the given ID.
func (s *SQLiteStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, partner_id, avatar FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PartnerID, &u.Avatar)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}

	return &u, nil
}

// LinkPartner links two users symmetrically. Both must already exist.
func (s *SQLiteStorage) LinkPartner(ctx context.Context, userID, partnerID string) error {
	if userID == partnerID {
		return fmt.Errorf("cannot link a user to themselves")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, pair := range [][2]string{{userID, partnerID}, {partnerID, userID}} {
		result, err := tx.ExecContext(ctx,
			"UPDATE users SET partner_id = ? WHERE id = ?", pair[1], pair[0])
		if err != nil {
			return fmt.Errorf("failed to link user %s: %w", pair[0], err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check link result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("user %s: %w", pair[0], common.ErrNotFound)
		}
	}

	return tx.Commit()
}
