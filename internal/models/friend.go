package models

// Friend is a contact of the local user. UPIID is the friend's payment
// handle, used to build pay links.
type Friend struct {
	ID          string `json:"id"`
	UserEmail   string `json:"user_email"`
	FriendEmail string `json:"friend_email"`
	FriendName  string `json:"friend_name"`
	AddedDate   string `json:"added_date"`
	UPIID       string `json:"upi_id,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}
