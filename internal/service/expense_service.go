package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// CalculateSplit previews the split of an amount without storing anything.
func (s *LedgerService) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	slog.Debug("CalculateSplit request received",
		"amount", req.Msg.Amount,
		"method", req.Msg.SplitMethod,
		"participants", len(req.Msg.Splits),
	)

	method, err := models.ParseSplitMethod(string(req.Msg.SplitMethod))
	if err != nil {
		return nil, connectError("CalculateSplit", invalidRequest("%v", err))
	}
	splits, err := calculator.ComputeSplit(req.Msg.Amount, method, req.Msg.Splits)
	if err != nil {
		return nil, connectError("CalculateSplit", err)
	}
	if err := calculator.ValidateSplit(req.Msg.Amount, method, splits); err != nil {
		return nil, connectError("CalculateSplit", err)
	}

	return connect.NewResponse(&CalculateSplitResponse{Splits: splits}), nil
}

// CreateExpense computes the splits of a new expense and stores it.
// Participants missing from the expense's group are added to it.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"description", req.Msg.Expense.Description,
		"amount", req.Msg.Expense.Amount,
		"group_id", req.Msg.Expense.GroupID,
	)

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("CreateExpense", err)
	}

	expense := req.Msg.Expense
	expense.ID = ""
	expense.CreatedBy = user.Email
	if err := s.prepareExpense(ctx, user, &expense); err != nil {
		return nil, connectError("CreateExpense", err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		return nil, connectError("CreateExpense", err)
	}
	s.autoAddParticipantsToGroup(ctx, &expense)

	slog.Info("Expense created", "expense_id", expense.ID, "splits", len(expense.Splits))
	return connect.NewResponse(&CreateExpenseResponse{Expense: &expense}), nil
}

// GetExpense retrieves an expense by ID.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	if req.Msg.ID == "" {
		return nil, connectError("GetExpense", invalidRequest("id required"))
	}
	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError("GetExpense", err)
	}
	return connect.NewResponse(&GetExpenseResponse{Expense: expense}), nil
}

// UpdateExpense recomputes and replaces an existing expense.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.Expense.ID)

	if req.Msg.Expense.ID == "" {
		return nil, connectError("UpdateExpense", invalidRequest("expense id required"))
	}
	existing, err := s.store.GetExpense(ctx, req.Msg.Expense.ID)
	if err != nil {
		return nil, connectError("UpdateExpense", err)
	}
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, connectError("UpdateExpense", err)
	}

	expense := req.Msg.Expense
	expense.CreatedBy = existing.CreatedBy
	if err := s.prepareExpense(ctx, user, &expense); err != nil {
		return nil, connectError("UpdateExpense", err)
	}
	if err := s.store.UpdateExpense(ctx, &expense); err != nil {
		return nil, connectError("UpdateExpense", err)
	}
	s.autoAddParticipantsToGroup(ctx, &expense)

	slog.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&UpdateExpenseResponse{Expense: &expense}), nil
}

// DeleteExpense removes an expense by ID.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		return nil, connectError("DeleteExpense", err)
	}
	slog.Info("Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&DeleteExpenseResponse{}), nil
}

// ListExpenses returns expenses ordered, limited and scoped by the request.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListExpensesResponse], error) {
	opts, err := listOptions(req.Msg)
	if err != nil {
		return nil, connectError("ListExpenses", err)
	}
	expenses, err := s.store.ListExpenses(ctx, opts)
	if err != nil {
		return nil, connectError("ListExpenses", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	slog.Debug("ListExpenses successful", "count", len(expenses))
	return connect.NewResponse(&ListExpensesResponse{Expenses: expenses}), nil
}

// prepareExpense fills defaults, checks fields and computes the splits.
// The payer defaults to the local user, the currency to their default.
func (s *LedgerService) prepareExpense(ctx context.Context, user *models.User, expense *models.Expense) error {
	expense.Description = strings.TrimSpace(expense.Description)
	if expense.Description == "" {
		return invalidRequest("description required")
	}

	category, err := models.ParseCategory(string(expense.Category))
	if err != nil {
		return invalidRequest("%v", err)
	}
	expense.Category = category

	if expense.Currency == "" {
		expense.Currency = user.DefaultCurrency
	}
	if expense.Date == "" {
		expense.Date = s.today()
	} else if err := checkDate("date", expense.Date); err != nil {
		return err
	}
	if expense.DueDate != "" {
		if err := checkDate("due_date", expense.DueDate); err != nil {
			return err
		}
	}

	if len(expense.Payers) == 0 {
		expense.Payers = []models.Payer{{Email: user.Email}}
	}
	if expense.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, expense.GroupID); err != nil {
			return err
		}
	}
	return calculator.ApplySplit(expense)
}

// autoAddParticipantsToGroup adds the payer and participants of expense that
// are not yet members of its group. Failures are logged, not returned.
func (s *LedgerService) autoAddParticipantsToGroup(ctx context.Context, expense *models.Expense) {
	if expense.GroupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", expense.GroupID, "error", err)
		return
	}

	people := append([]string{expense.Payer()}, expense.Participants()...)
	var newMembers []string
	for _, person := range cleanEmails(people) {
		if !group.HasMember(person) {
			newMembers = append(newMembers, person)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", group.ID, "new_members", newMembers)
}
