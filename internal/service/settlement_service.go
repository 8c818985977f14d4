package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// CreateSettlement records a payment between two people.
// FromUser defaults to the local user and Date to today.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error) {
	slog.Info("CreateSettlement request received",
		"from", req.Msg.Settlement.FromUser,
		"to", req.Msg.Settlement.ToUser,
		"amount", req.Msg.Settlement.Amount,
	)

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("CreateSettlement", err)
	}

	settlement := req.Msg.Settlement
	settlement.ID = ""
	settlement.CreatedBy = user.Email
	settlement.FromUser = strings.TrimSpace(settlement.FromUser)
	settlement.ToUser = strings.TrimSpace(settlement.ToUser)
	if settlement.FromUser == "" {
		settlement.FromUser = user.Email
	}
	if err := s.checkSettlement(ctx, &settlement); err != nil {
		return nil, connectError("CreateSettlement", err)
	}

	if err := s.store.CreateSettlement(ctx, &settlement); err != nil {
		return nil, connectError("CreateSettlement", err)
	}

	slog.Info("Settlement created", "settlement_id", settlement.ID)
	return connect.NewResponse(&CreateSettlementResponse{Settlement: &settlement}), nil
}

// DeleteSettlement removes a settlement by ID. Settlements cannot be edited.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error) {
	if err := s.store.DeleteSettlement(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteSettlement", err)
	}
	slog.Info("Settlement deleted", "settlement_id", req.Msg.ID)
	return connect.NewResponse(&DeleteSettlementResponse{}), nil
}

// ListSettlements returns settlements ordered, limited and scoped by the request.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListSettlementsResponse], error) {
	opts, err := listOptions(req.Msg)
	if err != nil {
		return nil, connectError("ListSettlements", err)
	}
	settlements, err := s.store.ListSettlements(ctx, opts)
	if err != nil {
		return nil, connectError("ListSettlements", err)
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	return connect.NewResponse(&ListSettlementsResponse{Settlements: settlements}), nil
}

func (s *LedgerService) checkSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ToUser == "" {
		return invalidRequest("to_user required")
	}
	if settlement.ToUser == settlement.FromUser {
		return invalidRequest("cannot settle with yourself")
	}
	if !money.Valid(settlement.Amount) || money.FromFloat(settlement.Amount) < money.Epsilon {
		return invalidRequest("amount must be at least 0.01")
	}
	if settlement.Date == "" {
		settlement.Date = s.today()
	} else if err := checkDate("date", settlement.Date); err != nil {
		return err
	}
	if settlement.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, settlement.GroupID); err != nil {
			return err
		}
	}
	return nil
}
