package service

import (
	"context"
	"log/slog"
	"sort"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/report"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/upi"
)

const (
	defaultAnalyticsMonths = 6

	// pairwisePlan names the plan of a group without debt simplification.
	pairwisePlan = "pairwise"
)

// GetBalances computes the local user's balances, optionally within one group.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("GetBalances", err)
	}
	expenses, settlements, err := s.ledgerRecords(ctx, groupID)
	if err != nil {
		return nil, connectError("GetBalances", err)
	}

	balances, err := calculator.AggregateBalances(user.Email, expenses, settlements)
	if err != nil {
		return nil, connectError("GetBalances", err)
	}

	links, err := s.paymentLinks(ctx, user, owedPayments(user.Email, balances))
	if err != nil {
		return nil, connectError("GetBalances", err)
	}

	slog.Info("GetBalances successful",
		"group_id", groupID,
		"expenses", len(expenses),
		"settlements", len(settlements),
		"people", len(balances.OweThem)+len(balances.OwedByThem),
	)

	return connect.NewResponse(&GetBalancesResponse{
		Reference: user.Email,
		Balances:  balances,
		Net:       balances.Net(),
		Totals:    balances.Totals(),
		Ranked:    balances.Ranked(),
		NextPayer: calculator.NextPayer(user.Email, expenses),

		PaymentLinks: links,
	}), nil
}

// SimplifyDebts builds a payoff plan from everyone's net position, so debts
// between people other than the local user are included. A group with debt
// simplification turned off gets one payment per pair of people instead.
func (s *LedgerService) SimplifyDebts(ctx context.Context, req *connect.Request[SimplifyDebtsRequest]) (*connect.Response[SimplifyDebtsResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("SimplifyDebts request received", "group_id", groupID, "strategy", s.strategyName)

	simplify := true
	if groupID != "" {
		group, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			return nil, connectError("SimplifyDebts", err)
		}
		simplify = group.SimplifyDebts
	}

	expenses, settlements, err := s.ledgerRecords(ctx, groupID)
	if err != nil {
		return nil, connectError("SimplifyDebts", err)
	}

	strategy := s.strategyName
	var payments []calculator.Payment
	if simplify {
		positions, err := calculator.NetPositions(expenses, settlements)
		if err != nil {
			return nil, connectError("SimplifyDebts", err)
		}
		payments = calculator.Simplify(s.strategy, calculator.PositionsFromCents(positions))
	} else {
		strategy = pairwisePlan
		if payments, err = calculator.PairwiseDebts(expenses, settlements); err != nil {
			return nil, connectError("SimplifyDebts", err)
		}
	}
	if payments == nil {
		payments = []calculator.Payment{}
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("SimplifyDebts", err)
	}
	links, err := s.paymentLinks(ctx, user, payments)
	if err != nil {
		return nil, connectError("SimplifyDebts", err)
	}

	slog.Info("SimplifyDebts successful", "group_id", groupID, "strategy", strategy, "payments", len(payments))
	return connect.NewResponse(&SimplifyDebtsResponse{
		Strategy:     strategy,
		Simplified:   simplify,
		Payments:     payments,
		PaymentLinks: links,
	}), nil
}

// GetAnalytics summarizes spending by category and month.
func (s *LedgerService) GetAnalytics(ctx context.Context, req *connect.Request[GetAnalyticsRequest]) (*connect.Response[GetAnalyticsResponse], error) {
	months := req.Msg.Months
	if months < 0 {
		return nil, connectError("GetAnalytics", invalidRequest("months must not be negative"))
	}
	if months == 0 {
		months = defaultAnalyticsMonths
	}

	expenses, _, err := s.ledgerRecords(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("GetAnalytics", err)
	}

	return connect.NewResponse(&GetAnalyticsResponse{
		Summary:    report.Summary(expenses),
		Categories: report.CategoryTotals(expenses),
		Monthly:    report.MonthlyTotals(expenses, s.now(), months),
	}), nil
}

type payee struct {
	upiID string
	name  string
}

// paymentLinks returns a UPI link for every payment whose receiver has a UPI
// handle: the local user or one of their friends.
func (s *LedgerService) paymentLinks(ctx context.Context, user *models.User, payments []calculator.Payment) ([]PaymentLink, error) {
	links := []PaymentLink{}
	if len(payments) == 0 {
		return links, nil
	}

	friends, err := s.store.ListFriends(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	payees := make(map[string]payee, len(friends)+1)
	for _, f := range friends {
		if f.UPIID != "" {
			payees[f.FriendEmail] = payee{upiID: f.UPIID, name: f.FriendName}
		}
	}
	if user.UPIID != "" {
		name := user.FullName
		if name == "" {
			name = user.Email
		}
		payees[user.Email] = payee{upiID: user.UPIID, name: name}
	}

	for _, p := range payments {
		to, ok := payees[p.To]
		if !ok {
			continue
		}
		url := upi.PaymentLink(to.upiID, to.name, money.FromFloat(p.Amount), upi.DefaultCurrency)
		if url != "" {
			links = append(links, PaymentLink{Payment: p, URL: url})
		}
	}
	return links, nil
}

// owedPayments turns what reference owes into payments, ordered by receiver.
func owedPayments(reference string, balances calculator.Balances) []calculator.Payment {
	payments := make([]calculator.Payment, 0, len(balances.OweThem))
	for person, amount := range balances.OweThem {
		payments = append(payments, calculator.Payment{From: reference, To: person, Amount: amount})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].To < payments[j].To
	})
	return payments
}
