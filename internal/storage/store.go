// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

const (
	// DefaultLimit caps list results when ListOptions.Limit is zero.
	DefaultLimit = 1000

	// NoLimit used as ListOptions.Limit returns every record.
	NoLimit = 1 << 30
)

// ListOptions controls ordering, size and scope of list operations.
type ListOptions struct {
	// SortBy is a field name, prefixed with "-" for descending order.
	// Supported: created_at, date, amount. Default "-created_at".
	SortBy string

	// Limit caps the number of records returned. Zero means DefaultLimit.
	Limit int

	// GroupID restricts results to one group when set.
	GroupID string
}

// Order returns the sort field and direction of o.
func (o ListOptions) Order() (field string, desc bool) {
	sortBy := o.SortBy
	if sortBy == "" {
		sortBy = "-created_at"
	}
	return strings.TrimPrefix(sortBy, "-"), strings.HasPrefix(sortBy, "-")
}

// MaxResults returns the effective limit.
func (o ListOptions) MaxResults() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense persists a new expense.
	// The expense ID and timestamps are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// UpdateExpense replaces an existing expense, payers and splits included.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, opts ListOptions) ([]models.Expense, error)
}

// SettlementStore persists settlements. Settlements are never updated.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)
	DeleteSettlement(ctx context.Context, id string) error
	ListSettlements(ctx context.Context, opts ListOptions) ([]models.Settlement, error)
}

// GroupStore persists groups and their members.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id string) error
	// AddGroupMembers adds members, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error
}

// FriendStore persists the local user's contacts.
type FriendStore interface {
	CreateFriend(ctx context.Context, friend *models.Friend) error
	ListFriends(ctx context.Context, userEmail string) ([]models.Friend, error)
	DeleteFriend(ctx context.Context, id string) error
}

// UserStore persists the single local user.
type UserStore interface {
	// GetUser returns the local user, creating it from defaults on first use.
	GetUser(ctx context.Context, defaults models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// Store defines the full ledger storage surface.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	ExpenseStore
	SettlementStore
	GroupStore
	FriendStore
	UserStore

	// ExportSnapshot returns every record.
	ExportSnapshot(ctx context.Context) (*models.Snapshot, error)

	// ImportSnapshot replaces all data with the snapshot contents atomically.
	ImportSnapshot(ctx context.Context, snapshot *models.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
