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

const settlementColumns = `id, from_user, to_user, amount, date, note, group_id,
	payment_method, created_at, created_by`

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	return insertSettlement(ctx, s.db, settlement)
}

func insertSettlement(ctx context.Context, q querier, settlement *models.Settlement) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.FromUser, settlement.ToUser, settlement.Amount, settlement.Date,
		nullable(settlement.Note), nullable(settlement.GroupID), settlement.PaymentMethod,
		settlement.CreatedAt, settlement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+settlementColumns+" FROM settlements WHERE id = ?", id)
	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlements retrieves settlements ordered and limited by opts.
func (s *SQLiteStore) ListSettlements(ctx context.Context, opts storage.ListOptions) ([]models.Settlement, error) {
	return listSettlements(ctx, s.db, opts)
}

func listSettlements(ctx context.Context, q querier, opts storage.ListOptions) ([]models.Settlement, error) {
	order, err := orderClause(opts)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + settlementColumns + " FROM settlements"
	var args []any
	if opts.GroupID != "" {
		query += " WHERE group_id = ?"
		args = append(args, opts.GroupID)
	}

	rows, err := q.QueryContext(ctx, query+order, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, *settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("settlement", id)
	}
	return nil
}

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note, groupID sql.NullString
	err := row.Scan(&settlement.ID, &settlement.FromUser, &settlement.ToUser, &settlement.Amount,
		&settlement.Date, &note, &groupID, &settlement.PaymentMethod,
		&settlement.CreatedAt, &settlement.CreatedBy)
	if err != nil {
		return nil, err
	}
	settlement.Note = note.String
	settlement.GroupID = groupID.String
	return settlement, nil
}
