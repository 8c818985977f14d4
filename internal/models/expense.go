package models

import "fmt"

// DateLayout is the calendar date format used by Expense.Date and Settlement.Date.
const DateLayout = "2006-01-02"

// Category classifies an expense for reporting.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryAccommodation  Category = "accommodation"
	CategoryUtilities      Category = "utilities"
	CategoryShopping       Category = "shopping"
	CategoryGroceries      Category = "groceries"
	CategoryHealthcare     Category = "healthcare"
	CategoryOther          Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryAccommodation,
	CategoryUtilities,
	CategoryShopping,
	CategoryGroceries,
	CategoryHealthcare,
	CategoryOther,
}

// ParseCategory maps a stored value to a Category. Empty means other.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// SplitMethod is the rule used to divide an expense among its participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitExact      SplitMethod = "exact"
	SplitPercentage SplitMethod = "percentage"
	SplitShares     SplitMethod = "shares"
)

// ParseSplitMethod maps a stored value to a SplitMethod. Empty means equal.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch SplitMethod(s) {
	case "":
		return SplitEqual, nil
	case SplitEqual, SplitExact, SplitPercentage, SplitShares:
		return SplitMethod(s), nil
	}
	return "", fmt.Errorf("unknown split method %q", s)
}

// Expense represents one shared cost.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	Description string `json:"description"`

	// Amount is the total cost. Always positive.
	Amount float64 `json:"amount"`

	// Currency is a display label only. No conversion is ever applied.
	Currency string `json:"currency"`

	// Date is the calendar date of the expense (YYYY-MM-DD), independent of CreatedAt.
	Date string `json:"date"`

	Category Category `json:"category"`

	// Payers lists who paid. Only the first payer is used when balancing;
	// multi-payer expenses are stored as entered.
	Payers []Payer `json:"payers"`

	SplitMethod SplitMethod `json:"split_method"`

	// Splits holds one entry per person who owes a share, including the payer.
	// The amounts sum to Amount within 0.01.
	Splits []Split `json:"splits"`

	// GroupID optionally scopes the expense to a group.
	GroupID string `json:"group_id,omitempty"`

	PaymentMethod string `json:"payment_method,omitempty"`
	DueDate       string `json:"due_date,omitempty"`

	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	CreatedBy string `json:"created_by,omitempty"`
}

// Payer is one person who paid towards an expense.
type Payer struct {
	Email  string  `json:"email"`
	Amount float64 `json:"amount"`
}

// Split is one participant's share of an expense.
// Percentage and Shares are only meaningful for their split methods.
type Split struct {
	Email      string  `json:"email"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Shares     int     `json:"shares"`
}

// Payer returns the person whose payment is balanced, or "" when none is recorded.
func (e *Expense) Payer() string {
	if len(e.Payers) == 0 {
		return ""
	}
	return e.Payers[0].Email
}

// Participants returns the person keys of the splits in order.
func (e *Expense) Participants() []string {
	people := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		people[i] = s.Email
	}
	return people
}
