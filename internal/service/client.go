package service

import (
	"context"

	"connectrpc.com/connect"
)

// LedgerServiceClient calls a LedgerService over Connect with the JSON codec.
type LedgerServiceClient struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

// NewLedgerServiceClient constructs a client for the LedgerService served at
// baseURL, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	return &LedgerServiceClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		opts:       append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...),
	}
}

func invoke[Res, Req any](ctx context.Context, c *LedgerServiceClient, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...)
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *LedgerServiceClient) CalculateSplit(ctx context.Context, req *CalculateSplitRequest) (*CalculateSplitResponse, error) {
	return invoke[CalculateSplitResponse](ctx, c, LedgerServiceCalculateSplitProcedure, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*CreateExpenseResponse, error) {
	return invoke[CreateExpenseResponse](ctx, c, LedgerServiceCreateExpenseProcedure, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *GetExpenseRequest) (*GetExpenseResponse, error) {
	return invoke[GetExpenseResponse](ctx, c, LedgerServiceGetExpenseProcedure, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *UpdateExpenseRequest) (*UpdateExpenseResponse, error) {
	return invoke[UpdateExpenseResponse](ctx, c, LedgerServiceUpdateExpenseProcedure, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) (*DeleteExpenseResponse, error) {
	return invoke[DeleteExpenseResponse](ctx, c, LedgerServiceDeleteExpenseProcedure, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *ListRequest) (*ListExpensesResponse, error) {
	return invoke[ListExpensesResponse](ctx, c, LedgerServiceListExpensesProcedure, req)
}

func (c *LedgerServiceClient) CreateSettlement(ctx context.Context, req *CreateSettlementRequest) (*CreateSettlementResponse, error) {
	return invoke[CreateSettlementResponse](ctx, c, LedgerServiceCreateSettlementProcedure, req)
}

func (c *LedgerServiceClient) DeleteSettlement(ctx context.Context, req *DeleteSettlementRequest) (*DeleteSettlementResponse, error) {
	return invoke[DeleteSettlementResponse](ctx, c, LedgerServiceDeleteSettlementProcedure, req)
}

func (c *LedgerServiceClient) ListSettlements(ctx context.Context, req *ListRequest) (*ListSettlementsResponse, error) {
	return invoke[ListSettlementsResponse](ctx, c, LedgerServiceListSettlementsProcedure, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *GetBalancesRequest) (*GetBalancesResponse, error) {
	return invoke[GetBalancesResponse](ctx, c, LedgerServiceGetBalancesProcedure, req)
}

func (c *LedgerServiceClient) SimplifyDebts(ctx context.Context, req *SimplifyDebtsRequest) (*SimplifyDebtsResponse, error) {
	return invoke[SimplifyDebtsResponse](ctx, c, LedgerServiceSimplifyDebtsProcedure, req)
}

func (c *LedgerServiceClient) GetUser(ctx context.Context, req *GetUserRequest) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c, LedgerServiceGetUserProcedure, req)
}

func (c *LedgerServiceClient) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*UpdateUserResponse, error) {
	return invoke[UpdateUserResponse](ctx, c, LedgerServiceUpdateUserProcedure, req)
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*CreateGroupResponse, error) {
	return invoke[CreateGroupResponse](ctx, c, LedgerServiceCreateGroupProcedure, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *GetGroupRequest) (*GetGroupResponse, error) {
	return invoke[GetGroupResponse](ctx, c, LedgerServiceGetGroupProcedure, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *ListGroupsRequest) (*ListGroupsResponse, error) {
	return invoke[ListGroupsResponse](ctx, c, LedgerServiceListGroupsProcedure, req)
}

func (c *LedgerServiceClient) UpdateGroup(ctx context.Context, req *UpdateGroupRequest) (*UpdateGroupResponse, error) {
	return invoke[UpdateGroupResponse](ctx, c, LedgerServiceUpdateGroupProcedure, req)
}

func (c *LedgerServiceClient) DeleteGroup(ctx context.Context, req *DeleteGroupRequest) (*DeleteGroupResponse, error) {
	return invoke[DeleteGroupResponse](ctx, c, LedgerServiceDeleteGroupProcedure, req)
}

func (c *LedgerServiceClient) AddGroupMembers(ctx context.Context, req *AddGroupMembersRequest) (*AddGroupMembersResponse, error) {
	return invoke[AddGroupMembersResponse](ctx, c, LedgerServiceAddGroupMembersProcedure, req)
}

func (c *LedgerServiceClient) AddFriend(ctx context.Context, req *AddFriendRequest) (*AddFriendResponse, error) {
	return invoke[AddFriendResponse](ctx, c, LedgerServiceAddFriendProcedure, req)
}

func (c *LedgerServiceClient) ListFriends(ctx context.Context, req *ListFriendsRequest) (*ListFriendsResponse, error) {
	return invoke[ListFriendsResponse](ctx, c, LedgerServiceListFriendsProcedure, req)
}

func (c *LedgerServiceClient) DeleteFriend(ctx context.Context, req *DeleteFriendRequest) (*DeleteFriendResponse, error) {
	return invoke[DeleteFriendResponse](ctx, c, LedgerServiceDeleteFriendProcedure, req)
}

func (c *LedgerServiceClient) GetAnalytics(ctx context.Context, req *GetAnalyticsRequest) (*GetAnalyticsResponse, error) {
	return invoke[GetAnalyticsResponse](ctx, c, LedgerServiceGetAnalyticsProcedure, req)
}

func (c *LedgerServiceClient) ExportSnapshot(ctx context.Context, req *ExportSnapshotRequest) (*ExportSnapshotResponse, error) {
	return invoke[ExportSnapshotResponse](ctx, c, LedgerServiceExportSnapshotProcedure, req)
}

func (c *LedgerServiceClient) ImportSnapshot(ctx context.Context, req *ImportSnapshotRequest) (*ImportSnapshotResponse, error) {
	return invoke[ImportSnapshotResponse](ctx, c, LedgerServiceImportSnapshotProcedure, req)
}

func (c *LedgerServiceClient) ExportCSV(ctx context.Context, req *ExportCSVRequest) (*ExportCSVResponse, error) {
	return invoke[ExportCSVResponse](ctx, c, LedgerServiceExportCSVProcedure, req)
}
