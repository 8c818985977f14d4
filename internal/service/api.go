package service

import (
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/report"
)

// Request and response messages of the LedgerService.

type CalculateSplitRequest struct {
	Amount      float64            `json:"amount"`
	SplitMethod models.SplitMethod `json:"split_method"`
	Splits      []models.Split     `json:"splits"`
}

type CalculateSplitResponse struct {
	Splits []models.Split `json:"splits"`
}

type CreateExpenseRequest struct {
	Expense models.Expense `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id"`
}

type GetExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	Expense models.Expense `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

// ListRequest is shared by the list procedures.
type ListRequest struct {
	// SortBy is created_at, date or amount, prefixed with "-" for descending.
	SortBy  string `json:"sort_by,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type CreateSettlementRequest struct {
	Settlement models.Settlement `json:"settlement"`
}

type CreateSettlementResponse struct {
	Settlement *models.Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	ID string `json:"id"`
}

type DeleteSettlementResponse struct{}

type ListSettlementsResponse struct {
	Settlements []models.Settlement `json:"settlements"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type GetBalancesResponse struct {
	// Reference is the person the balances are relative to.
	Reference string                     `json:"reference"`
	Balances  calculator.Balances        `json:"balances"`
	Net       map[string]float64         `json:"net"`
	Totals    calculator.Totals          `json:"totals"`
	Ranked    []calculator.PersonBalance `json:"ranked"`
	NextPayer string                     `json:"next_payer,omitempty"`

	// PaymentLinks holds a UPI link for each person the reference owes who
	// has a UPI handle.
	PaymentLinks []PaymentLink `json:"payment_links"`
}

// PaymentLink is a payment together with a UPI link that pays it.
type PaymentLink struct {
	calculator.Payment
	URL string `json:"url"`
}

type SimplifyDebtsRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type SimplifyDebtsResponse struct {
	// Strategy is the configured strategy, or "pairwise" when the group
	// has debt simplification turned off.
	Strategy     string               `json:"strategy"`
	Simplified   bool                 `json:"simplified"`
	Payments     []calculator.Payment `json:"payments"`
	PaymentLinks []PaymentLink        `json:"payment_links"`
}

type GetUserRequest struct{}

type GetUserResponse struct {
	User *models.User `json:"user"`
}

// UpdateUserRequest changes the profile. Empty fields keep their value.
type UpdateUserRequest struct {
	FullName        string `json:"full_name,omitempty"`
	DefaultCurrency string `json:"default_currency,omitempty"`
	UPIID           string `json:"upi_id,omitempty"`
}

type UpdateUserResponse struct {
	User *models.User `json:"user"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	// SimplifyDebts defaults to true.
	SimplifyDebts *bool `json:"simplify_debts,omitempty"`
}

type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	ID string `json:"id"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []models.Group `json:"groups"`
}

// UpdateGroupRequest changes a group. Nil fields keep their value.
type UpdateGroupRequest struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	SimplifyDebts *bool   `json:"simplify_debts,omitempty"`
}

type UpdateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type DeleteGroupRequest struct {
	ID string `json:"id"`
}

type DeleteGroupResponse struct{}

type AddGroupMembersRequest struct {
	GroupID string   `json:"group_id"`
	Members []string `json:"members"`
}

type AddGroupMembersResponse struct {
	Group *models.Group `json:"group"`
}

type AddFriendRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	UPIID string `json:"upi_id,omitempty"`
}

type AddFriendResponse struct {
	Friend *models.Friend `json:"friend"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []models.Friend `json:"friends"`
}

type DeleteFriendRequest struct {
	ID string `json:"id"`
}

type DeleteFriendResponse struct{}

type GetAnalyticsRequest struct {
	GroupID string `json:"group_id,omitempty"`
	// Months is the length of the monthly trend. Zero means 6.
	Months int `json:"months,omitempty"`
}

type GetAnalyticsResponse struct {
	Summary    report.Stats           `json:"summary"`
	Categories []report.CategoryTotal `json:"categories"`
	Monthly    []report.MonthTotal    `json:"monthly"`
}

type ExportSnapshotRequest struct{}

type ExportSnapshotResponse struct {
	Snapshot *models.Snapshot `json:"snapshot"`
}

type ImportSnapshotRequest struct {
	Snapshot *models.Snapshot `json:"snapshot"`
}

type ImportSnapshotResponse struct {
	Expenses    int `json:"expenses"`
	Settlements int `json:"settlements"`
	Groups      int `json:"groups"`
	Friends     int `json:"friends"`
}

type ExportCSVRequest struct{}

type ExportCSVResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
