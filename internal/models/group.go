package models

import "encoding/json"

// Group represents a named set of people.
// Groups scope which expenses and settlements are balanced together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string `json:"name"`

	Description string `json:"description,omitempty"`

	// Members is the list of person keys (emails) in this group.
	Members []string `json:"members"`

	// SimplifyDebts selects the payoff plan for the group: a simplified plan
	// over everyone's net position, or one payment per pair of people.
	SimplifyDebts bool `json:"simplify_debts"`

	CreatedAt int64  `json:"created_at"`
	CreatedBy string `json:"created_by,omitempty"`
}

// HasMember reports whether email belongs to the group.
func (g *Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m == email {
			return true
		}
	}
	return false
}

// UnmarshalJSON defaults SimplifyDebts to true when the field is absent.
func (g *Group) UnmarshalJSON(data []byte) error {
	type plain Group
	p := plain{SimplifyDebts: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Group(p)
	return nil
}
