package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/storage"
)

// ExportSnapshot reads every record in one transaction.
func (s *SQLiteStore) ExportSnapshot(ctx context.Context) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{ExportedAt: time.Now().UTC().Format(time.RFC3339)}
	all := storage.ListOptions{SortBy: "created_at", Limit: storage.NoLimit}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		user, err := getUser(ctx, tx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get user: %w", err)
		}
		snapshot.User = user

		if snapshot.Expenses, err = listExpenses(ctx, tx, all); err != nil {
			return err
		}
		if snapshot.Settlements, err = listSettlements(ctx, tx, all); err != nil {
			return err
		}
		if snapshot.Groups, err = listGroups(ctx, tx); err != nil {
			return err
		}
		snapshot.Friends, err = listFriends(ctx, tx, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	// Empty sections export as [] so that re-importing clears them.
	if snapshot.Expenses == nil {
		snapshot.Expenses = []models.Expense{}
	}
	if snapshot.Settlements == nil {
		snapshot.Settlements = []models.Settlement{}
	}
	if snapshot.Groups == nil {
		snapshot.Groups = []models.Group{}
	}
	if snapshot.Friends == nil {
		snapshot.Friends = []models.Friend{}
	}
	return snapshot, nil
}

// ImportSnapshot replaces all stored data with the snapshot. Sections that
// are nil in the snapshot are left as they are. Records without IDs or
// timestamps get fresh ones.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	now := time.Now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if snapshot.User != nil {
			user := *snapshot.User
			if user.ID == "" {
				user.ID = uuid.New().String()
			}
			if user.CreatedAt == 0 {
				user.CreatedAt = now
			}
			if user.UpdatedAt == 0 {
				user.UpdatedAt = now
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
				return fmt.Errorf("failed to clear users: %w", err)
			}
			if err := insertUser(ctx, tx, &user); err != nil {
				return err
			}
		}

		if snapshot.Groups != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM expense_groups"); err != nil {
				return fmt.Errorf("failed to clear groups: %w", err)
			}
			for i := range snapshot.Groups {
				g := snapshot.Groups[i]
				if g.ID == "" {
					g.ID = uuid.New().String()
				}
				if g.CreatedAt == 0 {
					g.CreatedAt = now
				}
				if err := insertGroup(ctx, tx, &g); err != nil {
					return err
				}
			}
		}

		if snapshot.Expenses != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
				return fmt.Errorf("failed to clear expenses: %w", err)
			}
			for i := range snapshot.Expenses {
				e := snapshot.Expenses[i]
				if e.ID == "" {
					e.ID = uuid.New().String()
				}
				if e.CreatedAt == 0 {
					e.CreatedAt = now
				}
				if e.UpdatedAt == 0 {
					e.UpdatedAt = e.CreatedAt
				}
				if err := insertExpense(ctx, tx, &e); err != nil {
					return err
				}
			}
		}

		if snapshot.Settlements != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM settlements"); err != nil {
				return fmt.Errorf("failed to clear settlements: %w", err)
			}
			for i := range snapshot.Settlements {
				st := snapshot.Settlements[i]
				if st.ID == "" {
					st.ID = uuid.New().String()
				}
				if st.CreatedAt == 0 {
					st.CreatedAt = now
				}
				if err := insertSettlement(ctx, tx, &st); err != nil {
					return err
				}
			}
		}

		if snapshot.Friends != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM friends"); err != nil {
				return fmt.Errorf("failed to clear friends: %w", err)
			}
			for i := range snapshot.Friends {
				f := snapshot.Friends[i]
				if f.ID == "" {
					f.ID = uuid.New().String()
				}
				if f.CreatedAt == 0 {
					f.CreatedAt = now
				}
				if err := insertFriend(ctx, tx, &f); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
