// Package service exposes the ledger over Connect.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/storage"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCalculateSplitProcedure   = "/" + LedgerServiceName + "/CalculateSplit"
	LedgerServiceCreateExpenseProcedure    = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceGetExpenseProcedure       = "/" + LedgerServiceName + "/GetExpense"
	LedgerServiceUpdateExpenseProcedure    = "/" + LedgerServiceName + "/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure    = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerServiceListExpensesProcedure     = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceCreateSettlementProcedure = "/" + LedgerServiceName + "/CreateSettlement"
	LedgerServiceDeleteSettlementProcedure = "/" + LedgerServiceName + "/DeleteSettlement"
	LedgerServiceListSettlementsProcedure  = "/" + LedgerServiceName + "/ListSettlements"
	LedgerServiceGetBalancesProcedure      = "/" + LedgerServiceName + "/GetBalances"
	LedgerServiceSimplifyDebtsProcedure    = "/" + LedgerServiceName + "/SimplifyDebts"
	LedgerServiceGetUserProcedure          = "/" + LedgerServiceName + "/GetUser"
	LedgerServiceUpdateUserProcedure       = "/" + LedgerServiceName + "/UpdateUser"
	LedgerServiceCreateGroupProcedure      = "/" + LedgerServiceName + "/CreateGroup"
	LedgerServiceGetGroupProcedure         = "/" + LedgerServiceName + "/GetGroup"
	LedgerServiceListGroupsProcedure       = "/" + LedgerServiceName + "/ListGroups"
	LedgerServiceUpdateGroupProcedure      = "/" + LedgerServiceName + "/UpdateGroup"
	LedgerServiceDeleteGroupProcedure      = "/" + LedgerServiceName + "/DeleteGroup"
	LedgerServiceAddGroupMembersProcedure  = "/" + LedgerServiceName + "/AddGroupMembers"
	LedgerServiceAddFriendProcedure        = "/" + LedgerServiceName + "/AddFriend"
	LedgerServiceListFriendsProcedure      = "/" + LedgerServiceName + "/ListFriends"
	LedgerServiceDeleteFriendProcedure     = "/" + LedgerServiceName + "/DeleteFriend"
	LedgerServiceGetAnalyticsProcedure     = "/" + LedgerServiceName + "/GetAnalytics"
	LedgerServiceExportSnapshotProcedure   = "/" + LedgerServiceName + "/ExportSnapshot"
	LedgerServiceImportSnapshotProcedure   = "/" + LedgerServiceName + "/ImportSnapshot"
	LedgerServiceExportCSVProcedure        = "/" + LedgerServiceName + "/ExportCSV"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errAlreadyExists  = errors.New("already exists")
)

// Config configures a LedgerService.
type Config struct {
	// User is stored as the local user on first use.
	User models.User

	// Strategy names the debt simplification strategy.
	Strategy string
}

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	store        storage.Store
	defaults     models.User
	strategy     calculator.Strategy
	strategyName string
	now          func() time.Time
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, cfg Config) (*LedgerService, error) {
	strategy, err := calculator.StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	name := cfg.Strategy
	if name == "" {
		name = calculator.StrategySequential
	}
	return &LedgerService{
		store:        store,
		defaults:     cfg.User,
		strategy:     strategy,
		strategyName: name,
		now:          time.Now,
	}, nil
}

// NewLedgerServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	mux := http.NewServeMux()

	handle(mux, LedgerServiceCalculateSplitProcedure, svc.CalculateSplit, opts)
	handle(mux, LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts)
	handle(mux, LedgerServiceGetExpenseProcedure, svc.GetExpense, opts)
	handle(mux, LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts)
	handle(mux, LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts)
	handle(mux, LedgerServiceListExpensesProcedure, svc.ListExpenses, opts)
	handle(mux, LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts)
	handle(mux, LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts)
	handle(mux, LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts)
	handle(mux, LedgerServiceGetBalancesProcedure, svc.GetBalances, opts)
	handle(mux, LedgerServiceSimplifyDebtsProcedure, svc.SimplifyDebts, opts)
	handle(mux, LedgerServiceGetUserProcedure, svc.GetUser, opts)
	handle(mux, LedgerServiceUpdateUserProcedure, svc.UpdateUser, opts)
	handle(mux, LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts)
	handle(mux, LedgerServiceGetGroupProcedure, svc.GetGroup, opts)
	handle(mux, LedgerServiceListGroupsProcedure, svc.ListGroups, opts)
	handle(mux, LedgerServiceUpdateGroupProcedure, svc.UpdateGroup, opts)
	handle(mux, LedgerServiceDeleteGroupProcedure, svc.DeleteGroup, opts)
	handle(mux, LedgerServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts)
	handle(mux, LedgerServiceAddFriendProcedure, svc.AddFriend, opts)
	handle(mux, LedgerServiceListFriendsProcedure, svc.ListFriends, opts)
	handle(mux, LedgerServiceDeleteFriendProcedure, svc.DeleteFriend, opts)
	handle(mux, LedgerServiceGetAnalyticsProcedure, svc.GetAnalytics, opts)
	handle(mux, LedgerServiceExportSnapshotProcedure, svc.ExportSnapshot, opts)
	handle(mux, LedgerServiceImportSnapshotProcedure, svc.ImportSnapshot, opts)
	handle(mux, LedgerServiceExportCSVProcedure, svc.ExportCSV, opts)

	return "/" + LedgerServiceName + "/", mux
}

func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// connectError logs err and maps it to a Connect error code.
func connectError(op string, err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, errInvalidRequest), errors.Is(err, calculator.ErrInvalidSplitConfiguration):
		code = connect.CodeInvalidArgument
	case errors.Is(err, calculator.ErrMalformedRecord):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, errAlreadyExists):
		code = connect.CodeAlreadyExists
	}

	if code == connect.CodeInternal {
		slog.Error(op+" failed", "error", err)
	} else {
		slog.Warn(op+" rejected", "code", code, "error", err)
	}
	return connect.NewError(code, err)
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// currentUser returns the local user every balance is computed for.
func (s *LedgerService) currentUser(ctx context.Context) (*models.User, error) {
	return s.store.GetUser(ctx, s.defaults)
}

func (s *LedgerService) today() string {
	return s.now().Format(models.DateLayout)
}

func checkDate(field, value string) error {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return invalidRequest("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

var sortFields = map[string]bool{"created_at": true, "date": true, "amount": true}

func listOptions(req *ListRequest) (storage.ListOptions, error) {
	opts := storage.ListOptions{SortBy: req.SortBy, Limit: req.Limit, GroupID: req.GroupID}
	if field, _ := opts.Order(); !sortFields[field] {
		return opts, invalidRequest("cannot sort by %q", field)
	}
	if opts.Limit < 0 {
		return opts, invalidRequest("limit must not be negative")
	}
	return opts, nil
}

// cleanEmails trims, drops empty entries and removes duplicates, keeping order.
func cleanEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// ledgerRecords loads every expense and settlement, optionally scoped to a group.
func (s *LedgerService) ledgerRecords(ctx context.Context, groupID string) ([]models.Expense, []models.Settlement, error) {
	if groupID != "" {
		if _, err := s.store.GetGroup(ctx, groupID); err != nil {
			return nil, nil, err
		}
	}
	opts := storage.ListOptions{SortBy: "created_at", Limit: storage.NoLimit, GroupID: groupID}
	expenses, err := s.store.ListExpenses(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return expenses, settlements, nil
}
