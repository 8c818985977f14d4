package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// CreateGroup creates a new group. The local user is always a member.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError("CreateGroup", invalidRequest("name required"))
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("CreateGroup", err)
	}

	simplify := true
	if req.Msg.SimplifyDebts != nil {
		simplify = *req.Msg.SimplifyDebts
	}
	group := &models.Group{
		Name:          name,
		Description:   strings.TrimSpace(req.Msg.Description),
		Members:       cleanEmails(append([]string{user.Email}, req.Msg.Members...)),
		SimplifyDebts: simplify,
		CreatedBy:     user.Email,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, connectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&CreateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	group, err := s.store.GetGroup(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetGroup", err)
	}
	return connect.NewResponse(&GetGroupResponse{Group: group}), nil
}

// ListGroups returns the groups the local user belongs to.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("ListGroups", err)
	}
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, connectError("ListGroups", err)
	}

	mine := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if g.HasMember(user.Email) {
			mine = append(mine, g)
		}
	}

	slog.Debug("ListGroups successful", "count", len(mine))
	return connect.NewResponse(&ListGroupsResponse{Groups: mine}), nil
}

// UpdateGroup renames a group or switches its debt simplification.
func (s *LedgerService) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	group, err := s.store.GetGroup(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("UpdateGroup", err)
	}

	if req.Msg.Name != nil {
		name := strings.TrimSpace(*req.Msg.Name)
		if name == "" {
			return nil, connectError("UpdateGroup", invalidRequest("name must not be empty"))
		}
		group.Name = name
	}
	if req.Msg.Description != nil {
		group.Description = strings.TrimSpace(*req.Msg.Description)
	}
	if req.Msg.SimplifyDebts != nil {
		group.SimplifyDebts = *req.Msg.SimplifyDebts
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, connectError("UpdateGroup", err)
	}

	slog.Info("Group updated", "group_id", group.ID, "simplify_debts", group.SimplifyDebts)
	return connect.NewResponse(&UpdateGroupResponse{Group: group}), nil
}

// DeleteGroup removes a group by ID. Its expenses and settlements are kept.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	if err := s.store.DeleteGroup(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteGroup", err)
	}
	slog.Info("Group deleted", "group_id", req.Msg.ID)
	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// AddGroupMembers adds people to a group, ignoring existing members.
func (s *LedgerService) AddGroupMembers(ctx context.Context, req *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error) {
	members := cleanEmails(req.Msg.Members)
	if len(members) == 0 {
		return nil, connectError("AddGroupMembers", invalidRequest("members required"))
	}
	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, members); err != nil {
		return nil, connectError("AddGroupMembers", err)
	}
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("AddGroupMembers", err)
	}

	slog.Info("Group members added", "group_id", group.ID, "members", members)
	return connect.NewResponse(&AddGroupMembersResponse{Group: group}), nil
}

// AddFriend stores a contact of the local user.
func (s *LedgerService) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error) {
	email := strings.TrimSpace(req.Msg.Email)
	if email == "" {
		return nil, connectError("AddFriend", invalidRequest("email required"))
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("AddFriend", err)
	}
	if email == user.Email {
		return nil, connectError("AddFriend", invalidRequest("cannot add yourself as a friend"))
	}

	friends, err := s.store.ListFriends(ctx, user.Email)
	if err != nil {
		return nil, connectError("AddFriend", err)
	}
	for _, f := range friends {
		if f.FriendEmail == email {
			return nil, connectError("AddFriend", errAlreadyExists)
		}
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		name = email
	}
	friend := &models.Friend{
		UserEmail:   user.Email,
		FriendEmail: email,
		FriendName:  name,
		AddedDate:   s.today(),
		UPIID:       strings.TrimSpace(req.Msg.UPIID),
	}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		return nil, connectError("AddFriend", err)
	}

	slog.Info("Friend added", "friend_id", friend.ID)
	return connect.NewResponse(&AddFriendResponse{Friend: friend}), nil
}

// ListFriends returns the local user's contacts.
func (s *LedgerService) ListFriends(ctx context.Context, req *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("ListFriends", err)
	}
	friends, err := s.store.ListFriends(ctx, user.Email)
	if err != nil {
		return nil, connectError("ListFriends", err)
	}
	if friends == nil {
		friends = []models.Friend{}
	}
	return connect.NewResponse(&ListFriendsResponse{Friends: friends}), nil
}

// DeleteFriend removes a contact by ID.
func (s *LedgerService) DeleteFriend(ctx context.Context, req *connect.Request[DeleteFriendRequest]) (*connect.Response[DeleteFriendResponse], error) {
	if err := s.store.DeleteFriend(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteFriend", err)
	}
	return connect.NewResponse(&DeleteFriendResponse{}), nil
}
