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

const expenseColumns = `id, description, amount, currency, date, category, split_method,
	group_id, payment_method, due_date, created_at, updated_at, created_by`

// CreateExpense persists a new expense with its payers and splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertExpense(ctx, tx, expense)
	})
}

func insertExpense(ctx context.Context, q querier, expense *models.Expense) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.Currency, expense.Date,
		string(expense.Category), string(expense.SplitMethod), nullable(expense.GroupID),
		expense.PaymentMethod, expense.DueDate, expense.CreatedAt, expense.UpdatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return insertExpenseParts(ctx, q, expense)
}

func insertExpenseParts(ctx context.Context, q querier, expense *models.Expense) error {
	for i, p := range expense.Payers {
		_, err := q.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, position, email, amount) VALUES (?, ?, ?, ?)",
			expense.ID, i, p.Email, p.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}
	for i, split := range expense.Splits {
		_, err := q.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, position, email, amount, percentage, shares)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, i, split.Email, split.Amount, split.Percentage, split.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including payers and splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("expense", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := loadExpenseParts(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces an existing expense. CreatedAt and CreatedBy are kept.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE expenses SET description = ?, amount = ?, currency = ?, date = ?, category = ?,
			 split_method = ?, group_id = ?, payment_method = ?, due_date = ?, updated_at = ?
			 WHERE id = ?`,
			expense.Description, expense.Amount, expense.Currency, expense.Date,
			string(expense.Category), string(expense.SplitMethod), nullable(expense.GroupID),
			expense.PaymentMethod, expense.DueDate, expense.UpdatedAt, expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return notFound("expense", expense.ID)
		}

		if err := tx.QueryRowContext(ctx,
			"SELECT created_at, created_by FROM expenses WHERE id = ?", expense.ID,
		).Scan(&expense.CreatedAt, &expense.CreatedBy); err != nil {
			return fmt.Errorf("failed to reload expense: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_payers WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear payers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear splits: %w", err)
		}
		return insertExpenseParts(ctx, tx, expense)
	})
}

// DeleteExpense removes an expense by ID. Payers and splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("expense", id)
	}
	return nil
}

// ListExpenses retrieves expenses ordered and limited by opts.
func (s *SQLiteStore) ListExpenses(ctx context.Context, opts storage.ListOptions) ([]models.Expense, error) {
	return listExpenses(ctx, s.db, opts)
}

func listExpenses(ctx context.Context, q querier, opts storage.ListOptions) ([]models.Expense, error) {
	order, err := orderClause(opts)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + expenseColumns + " FROM expenses"
	var args []any
	if opts.GroupID != "" {
		query += " WHERE group_id = ?"
		args = append(args, opts.GroupID)
	}

	rows, err := q.QueryContext(ctx, query+order, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Parts are loaded after the cursor is closed; the store runs on one connection.
	for i := range expenses {
		if err := loadExpenseParts(ctx, q, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var category, method string
	var groupID sql.NullString
	err := row.Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.Currency,
		&expense.Date, &category, &method, &groupID, &expense.PaymentMethod, &expense.DueDate,
		&expense.CreatedAt, &expense.UpdatedAt, &expense.CreatedBy)
	if err != nil {
		return nil, err
	}
	expense.Category = models.Category(category)
	expense.SplitMethod = models.SplitMethod(method)
	expense.GroupID = groupID.String
	return expense, nil
}

func loadExpenseParts(ctx context.Context, q querier, expense *models.Expense) error {
	rows, err := q.QueryContext(ctx,
		"SELECT email, amount FROM expense_payers WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	for rows.Next() {
		var p models.Payer
		if err := rows.Scan(&p.Email, &p.Amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		expense.Payers = append(expense.Payers, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}

	rows, err = q.QueryContext(ctx,
		"SELECT email, amount, percentage, shares FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.Email, &split.Amount, &split.Percentage, &split.Shares); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
