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

const groupColumns = "id, name, description, simplify_debts, created_at, created_by"

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertGroup(ctx, tx, group)
	})
}

func insertGroup(ctx context.Context, q querier, group *models.Group) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO expense_groups (id, name, description, simplify_debts, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.SimplifyDebts, group.CreatedAt, group.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return insertMembers(ctx, q, group.ID, group.Members, 0)
}

func insertMembers(ctx context.Context, q querier, groupID string, members []string, offset int) error {
	for i, email := range members {
		_, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, email, position) VALUES (?, ?, ?)",
			groupID, email, offset+i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM expense_groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.Description, &group.SimplifyDebts, &group.CreatedAt, &group.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if group.Members, err = loadMembers(ctx, s.db, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all groups, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	return listGroups(ctx, s.db)
}

func listGroups(ctx context.Context, q querier) ([]models.Group, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM expense_groups ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.SimplifyDebts, &g.CreatedAt, &g.CreatedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for i := range groups {
		if groups[i].Members, err = loadMembers(ctx, q, groups[i].ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup saves the name, description and simplify flag of a group.
// Members are changed through AddGroupMembers.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expense_groups SET name = ?, description = ?, simplify_debts = ? WHERE id = ?",
		group.Name, group.Description, group.SimplifyDebts, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("group", group.ID)
	}
	return nil
}

// DeleteGroup removes a group. Its expenses and settlements are kept.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expense_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("group", id)
	}
	return nil
}

// AddGroupMembers appends members to a group, skipping existing ones.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, members []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM expense_groups WHERE id = ?", groupID).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		if count == 0 {
			return notFound("group", groupID)
		}

		var next int
		err = tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?", groupID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to read member positions: %w", err)
		}
		return insertMembers(ctx, tx, groupID, members, next)
	})
}

func loadMembers(ctx context.Context, q querier, groupID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT email FROM group_members WHERE group_id = ? ORDER BY position", groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}
