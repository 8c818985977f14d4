package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

const userColumns = "id, email, full_name, default_currency, upi_id, created_at, updated_at"

// GetUser returns the local user. The first call stores defaults as the user.
func (s *SQLiteStore) GetUser(ctx context.Context, defaults models.User) (*models.User, error) {
	user, err := getUser(ctx, s.db)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user = models.NewUser(uuid.New().String(), defaults.Email, defaults.FullName, defaults.DefaultCurrency)
	user.UPIID = defaults.UPIID
	if err := insertUser(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites the profile fields of the local user.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, full_name = ?, default_currency = ?, upi_id = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email, user.FullName, user.DefaultCurrency, user.UPIID, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("user", user.ID)
	}
	return nil
}

func getUser(ctx context.Context, q querier) (*models.User, error) {
	user := &models.User{}
	err := q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at LIMIT 1",
	).Scan(&user.ID, &user.Email, &user.FullName, &user.DefaultCurrency, &user.UPIID,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func insertUser(ctx context.Context, q querier, user *models.User) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.FullName, user.DefaultCurrency, user.UPIID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
