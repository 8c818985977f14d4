package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/export"
)

// GetUser returns the local user, creating it on first use.
func (s *LedgerService) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("GetUser", err)
	}
	return connect.NewResponse(&GetUserResponse{User: user}), nil
}

// UpdateUser changes the profile of the local user. The email is fixed
// because it keys every balance.
func (s *LedgerService) UpdateUser(ctx context.Context, req *connect.Request[UpdateUserRequest]) (*connect.Response[UpdateUserResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("UpdateUser", err)
	}

	if name := strings.TrimSpace(req.Msg.FullName); name != "" {
		user.FullName = name
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.Msg.DefaultCurrency)); currency != "" {
		user.DefaultCurrency = currency
	}
	if upi := strings.TrimSpace(req.Msg.UPIID); upi != "" {
		user.UPIID = upi
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, connectError("UpdateUser", err)
	}
	slog.Info("User updated", "user_id", user.ID)
	return connect.NewResponse(&UpdateUserResponse{User: user}), nil
}

// ExportSnapshot returns every stored record.
func (s *LedgerService) ExportSnapshot(ctx context.Context, req *connect.Request[ExportSnapshotRequest]) (*connect.Response[ExportSnapshotResponse], error) {
	snapshot, err := s.store.ExportSnapshot(ctx)
	if err != nil {
		return nil, connectError("ExportSnapshot", err)
	}
	slog.Info("Snapshot exported",
		"expenses", len(snapshot.Expenses),
		"settlements", len(snapshot.Settlements),
	)
	return connect.NewResponse(&ExportSnapshotResponse{Snapshot: snapshot}), nil
}

// ImportSnapshot replaces the stored data with a snapshot. Records that could
// not be balanced are rejected before anything is written.
func (s *LedgerService) ImportSnapshot(ctx context.Context, req *connect.Request[ImportSnapshotRequest]) (*connect.Response[ImportSnapshotResponse], error) {
	snapshot := req.Msg.Snapshot
	if snapshot == nil {
		return nil, connectError("ImportSnapshot", invalidRequest("snapshot required"))
	}
	if _, err := calculator.NetPositions(snapshot.Expenses, snapshot.Settlements); err != nil {
		return nil, connectError("ImportSnapshot", err)
	}

	if err := s.store.ImportSnapshot(ctx, snapshot); err != nil {
		return nil, connectError("ImportSnapshot", err)
	}

	res := &ImportSnapshotResponse{
		Expenses:    len(snapshot.Expenses),
		Settlements: len(snapshot.Settlements),
		Groups:      len(snapshot.Groups),
		Friends:     len(snapshot.Friends),
	}
	slog.Info("Snapshot imported",
		"expenses", res.Expenses,
		"settlements", res.Settlements,
		"groups", res.Groups,
		"friends", res.Friends,
	)
	return connect.NewResponse(res), nil
}

// ExportCSV renders every expense and settlement as one CSV table.
func (s *LedgerService) ExportCSV(ctx context.Context, req *connect.Request[ExportCSVRequest]) (*connect.Response[ExportCSVResponse], error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("ExportCSV", err)
	}
	expenses, settlements, err := s.ledgerRecords(ctx, "")
	if err != nil {
		return nil, connectError("ExportCSV", err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses, settlements, user.DefaultCurrency); err != nil {
		return nil, connectError("ExportCSV", err)
	}
	return connect.NewResponse(&ExportCSVResponse{
		Filename: fmt.Sprintf("splitease_complete_%s.csv", s.today()),
		Content:  buf.String(),
	}), nil
}
