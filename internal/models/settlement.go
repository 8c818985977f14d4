package models

// Settlement represents a direct payment that reduces an outstanding balance.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// FromUser paid ToUser.
	FromUser string `json:"from_user"`
	ToUser   string `json:"to_user"`

	// Amount is the payment amount. Always positive.
	Amount float64 `json:"amount"`

	// Date is the calendar date of the payment (YYYY-MM-DD).
	Date string `json:"date"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty"`

	// GroupID optionally scopes the settlement to a group.
	GroupID string `json:"group_id,omitempty"`

	PaymentMethod string `json:"payment_method,omitempty"`

	CreatedAt int64  `json:"created_at"`
	CreatedBy string `json:"created_by,omitempty"`
}
