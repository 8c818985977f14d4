package models

import "time"

// User is the single implicit local user. Every balance shown to the
// application is computed from this user's point of view.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's person key.
	Email string `json:"email"`

	FullName string `json:"full_name"`

	// DefaultCurrency is the label preselected for new expenses.
	DefaultCurrency string `json:"default_currency"`

	// UPIID is an optional payment handle shown on settle-up screens.
	UPIID string `json:"upi_id,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates a user with timestamps set to now.
func NewUser(id, email, fullName, currency string) *User {
	now := time.Now().Unix()
	return &User{
		ID:              id,
		Email:           email,
		FullName:        fullName,
		DefaultCurrency: currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Snapshot is the complete exported state of a ledger.
type Snapshot struct {
	User        *User        `json:"user"`
	Expenses    []Expense    `json:"expenses"`
	Settlements []Settlement `json:"settlements"`
	Groups      []Group      `json:"groups"`
	Friends     []Friend     `json:"friends"`
	ExportedAt  string       `json:"exported_at,omitempty"`
}
