package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/middleware"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/storage/sqlite"
)

const me = "alice@x.com"

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// setupTestServer starts a LedgerService backed by a temporary SQLite file.
func setupTestServer(t *testing.T) *LedgerServiceClient {
	return setupTestServerWithStrategy(t, "")
}

func setupTestServerWithStrategy(t *testing.T, strategy string) *LedgerServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	svc, err := NewLedgerService(store, Config{
		User:     models.User{Email: me, FullName: "Alice", DefaultCurrency: "USD"},
		Strategy: strategy,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.now = func() time.Time { return testNow }

	path, handler := NewLedgerServiceHandler(svc, connect.WithInterceptors(middleware.LoggingInterceptor()))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return NewLedgerServiceClient(http.DefaultClient, server.URL)
}

// equalExpense builds an equal split request paid by payer.
func equalExpense(description string, amount float64, payer string, people ...string) CreateExpenseRequest {
	splits := make([]models.Split, len(people))
	for i, p := range people {
		splits[i] = models.Split{Email: p}
	}
	return CreateExpenseRequest{Expense: models.Expense{
		Description: description,
		Amount:      amount,
		Category:    models.CategoryFood,
		SplitMethod: models.SplitEqual,
		Payers:      []models.Payer{{Email: payer}},
		Splits:      splits,
	}}
}

func mustCreateExpense(t *testing.T, client *LedgerServiceClient, req CreateExpenseRequest) *models.Expense {
	t.Helper()
	resp, err := client.CreateExpense(context.Background(), &req)
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Expense
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func TestNewLedgerService_UnknownStrategy(t *testing.T) {
	if _, err := NewLedgerService(nil, Config{Strategy: "optimal"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestGetUser_CreatesDefaultUser(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	resp, err := client.GetUser(ctx, &GetUserRequest{})
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if resp.User.Email != me || resp.User.DefaultCurrency != "USD" {
		t.Errorf("unexpected user %+v", resp.User)
	}

	updated, err := client.UpdateUser(ctx, &UpdateUserRequest{DefaultCurrency: "inr", UPIID: "alice@upi"})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.User.DefaultCurrency != "INR" || updated.User.FullName != "Alice" || updated.User.UPIID != "alice@upi" {
		t.Errorf("unexpected updated user %+v", updated.User)
	}

	expense := mustCreateExpense(t, client, equalExpense("Chai", 10, me, me, "bob@x.com"))
	if expense.Currency != "INR" {
		t.Errorf("currency: expected default INR, got %q", expense.Currency)
	}
}
