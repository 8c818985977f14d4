package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// CreateFriend persists a new contact for friend.UserEmail.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}
	if friend.AddedDate == "" {
		friend.AddedDate = time.Now().Format(models.DateLayout)
	}
	return insertFriend(ctx, s.db, friend)
}

func insertFriend(ctx context.Context, q querier, friend *models.Friend) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO friends (id, user_email, friend_email, friend_name, added_date, upi_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		friend.ID, friend.UserEmail, friend.FriendEmail, friend.FriendName, friend.AddedDate, friend.UPIID, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}
	return nil
}

// ListFriends returns the contacts of userEmail ordered by name.
// An empty userEmail lists every friend record.
func (s *SQLiteStore) ListFriends(ctx context.Context, userEmail string) ([]models.Friend, error) {
	return listFriends(ctx, s.db, userEmail)
}

func listFriends(ctx context.Context, q querier, userEmail string) ([]models.Friend, error) {
	query := "SELECT id, user_email, friend_email, friend_name, added_date, upi_id, created_at FROM friends"
	var args []any
	if userEmail != "" {
		query += " WHERE user_email = ?"
		args = append(args, userEmail)
	}
	rows, err := q.QueryContext(ctx, query+" ORDER BY friend_name, friend_email", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.UserEmail, &f.FriendEmail, &f.FriendName, &f.AddedDate, &f.UPIID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a contact by ID.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM friends WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("friend", id)
	}
	return nil
}
