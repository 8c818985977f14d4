package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

func TestGetBalances_ExpenseThenSettlement(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	mustCreateExpense(t, client, equalExpense("Dinner", 90, me, me, "bob@x.com", "carol@x.com"))

	resp, err := client.GetBalances(ctx, &GetBalancesRequest{})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if resp.Reference != me {
		t.Errorf("reference: expected %s, got %q", me, resp.Reference)
	}
	want := map[string]float64{"bob@x.com": 30, "carol@x.com": 30}
	if len(resp.Balances.OwedByThem) != 2 {
		t.Fatalf("expected 2 debtors, got %+v", resp.Balances.OwedByThem)
	}
	for person, amount := range want {
		if resp.Balances.OwedByThem[person] != amount {
			t.Errorf("%s: expected %.2f, got %.2f", person, amount, resp.Balances.OwedByThem[person])
		}
	}
	if resp.Totals.OwedByThem != 60 || resp.Totals.Net != 60 {
		t.Errorf("unexpected totals %+v", resp.Totals)
	}

	_, err = client.CreateSettlement(ctx, &CreateSettlementRequest{Settlement: models.Settlement{
		FromUser: "bob@x.com", ToUser: me, Amount: 30,
	}})
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	resp, err = client.GetBalances(ctx, &GetBalancesRequest{})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if _, ok := resp.Balances.OwedByThem["bob@x.com"]; ok {
		t.Errorf("bob should be settled, got %+v", resp.Balances.OwedByThem)
	}
	if resp.Balances.OwedByThem["carol@x.com"] != 30 {
		t.Errorf("carol: expected 30, got %+v", resp.Balances.OwedByThem)
	}
	if len(resp.Ranked) != 1 || resp.Ranked[0].Person != "carol@x.com" {
		t.Errorf("unexpected ranking %+v", resp.Ranked)
	}
}

func TestGetBalances_GroupScope(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, &CreateGroupRequest{Name: "Trip", Members: []string{"bob@x.com"}})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	inGroup := equalExpense("Hotel", 200, me, me, "bob@x.com")
	inGroup.Expense.GroupID = group.Group.ID
	mustCreateExpense(t, client, inGroup)
	mustCreateExpense(t, client, equalExpense("Lunch", 40, "bob@x.com", me, "bob@x.com"))

	all, err := client.GetBalances(ctx, &GetBalancesRequest{})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if all.Net["bob@x.com"] != 80 {
		t.Errorf("overall: expected bob to owe 80, got %+v", all.Net)
	}

	scoped, err := client.GetBalances(ctx, &GetBalancesRequest{GroupID: group.Group.ID})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if scoped.Net["bob@x.com"] != 100 {
		t.Errorf("group: expected bob to owe 100, got %+v", scoped.Net)
	}

	_, err = client.GetBalances(ctx, &GetBalancesRequest{GroupID: "missing"})
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetBalances_NextPayer(t *testing.T) {
	client := setupTestServer(t)

	mustCreateExpense(t, client, equalExpense("Dinner", 90, me, me, "bob@x.com", "carol@x.com"))
	mustCreateExpense(t, client, equalExpense("Taxi", 30, "carol@x.com", me, "bob@x.com", "carol@x.com"))

	resp, err := client.GetBalances(context.Background(), &GetBalancesRequest{})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if resp.NextPayer != "bob@x.com" {
		t.Errorf("next payer: expected bob@x.com, got %q", resp.NextPayer)
	}
}

func TestCreateSettlement_Invalid(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		settlement models.Settlement
	}{
		{"missing receiver", models.Settlement{Amount: 10}},
		{"to self", models.Settlement{ToUser: me, Amount: 10}},
		{"zero amount", models.Settlement{ToUser: "bob@x.com"}},
		{"sub-cent amount", models.Settlement{ToUser: "bob@x.com", Amount: 0.004}},
		{"bad date", models.Settlement{ToUser: "bob@x.com", Amount: 5, Date: "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateSettlement(ctx, &CreateSettlementRequest{Settlement: tt.settlement})
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestSettlementLifecycle(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	created, err := client.CreateSettlement(ctx, &CreateSettlementRequest{Settlement: models.Settlement{
		ToUser: "bob@x.com", Amount: 12.5, Note: "coffee",
	}})
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if created.Settlement.FromUser != me || created.Settlement.Date != "2024-03-15" {
		t.Errorf("defaults not applied: %+v", created.Settlement)
	}

	list, err := client.ListSettlements(ctx, &ListRequest{})
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(list.Settlements) != 1 || list.Settlements[0].Note != "coffee" {
		t.Errorf("unexpected settlements %+v", list.Settlements)
	}

	if _, err := client.DeleteSettlement(ctx, &DeleteSettlementRequest{ID: created.Settlement.ID}); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	_, err = client.DeleteSettlement(ctx, &DeleteSettlementRequest{ID: created.Settlement.ID})
	assertCode(t, err, connect.CodeNotFound)
}

// applyPlan returns everyone's remaining position after the payments.
func applyPlan(net map[string]float64, payments []calculator.Payment) map[string]money.Cents {
	left := make(map[string]money.Cents)
	for person, amount := range net {
		left[person] = money.FromFloat(amount)
	}
	for _, p := range payments {
		left[p.From] += money.FromFloat(p.Amount)
		left[p.To] -= money.FromFloat(p.Amount)
	}
	return left
}

func TestSimplifyDebts(t *testing.T) {
	for _, strategy := range []string{calculator.StrategySequential, calculator.StrategyLargestFirst} {
		t.Run(strategy, func(t *testing.T) {
			client := setupTestServerWithStrategy(t, strategy)
			ctx := context.Background()

			// me paid 90 for three; bob paid 60 for bob and dave; carol paid bob 10.
			mustCreateExpense(t, client, equalExpense("Dinner", 90, me, me, "bob@x.com", "carol@x.com"))
			mustCreateExpense(t, client, equalExpense("Tickets", 60, "bob@x.com", "bob@x.com", "dave@x.com"))
			if _, err := client.CreateSettlement(ctx, &CreateSettlementRequest{Settlement: models.Settlement{
				FromUser: "carol@x.com", ToUser: "bob@x.com", Amount: 10,
			}}); err != nil {
				t.Fatalf("CreateSettlement failed: %v", err)
			}

			resp, err := client.SimplifyDebts(ctx, &SimplifyDebtsRequest{})
			if err != nil {
				t.Fatalf("SimplifyDebts failed: %v", err)
			}
			if resp.Strategy != strategy {
				t.Errorf("strategy: expected %s, got %s", strategy, resp.Strategy)
			}

			// positions: me +60, bob -30+30-10 = -10, carol -30+10 = -20, dave -30
			net := map[string]float64{me: 60, "bob@x.com": -10, "carol@x.com": -20, "dave@x.com": -30}
			for person, left := range applyPlan(net, resp.Payments) {
				if !left.IsZero() {
					t.Errorf("%s: %s left after plan %+v", person, left, resp.Payments)
				}
			}
			if len(resp.Payments) > 3 {
				t.Errorf("expected at most 3 payments, got %d", len(resp.Payments))
			}
			for _, p := range resp.Payments {
				if p.To != me || p.Amount <= 0 {
					t.Errorf("unexpected payment %+v", p)
				}
			}
		})
	}
}

func TestSimplifyDebts_Empty(t *testing.T) {
	client := setupTestServer(t)

	resp, err := client.SimplifyDebts(context.Background(), &SimplifyDebtsRequest{})
	if err != nil {
		t.Fatalf("SimplifyDebts failed: %v", err)
	}
	if len(resp.Payments) != 0 || resp.Strategy != calculator.StrategySequential {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestSimplifyDebts_GroupWithoutSimplification(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	off := false
	group, err := client.CreateGroup(ctx, &CreateGroupRequest{
		Name:          "Flat",
		Members:       []string{"bob@x.com", "carol@x.com"},
		SimplifyDebts: &off,
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// bob owes me 30, carol owes bob 30: simplified, carol would pay me directly.
	rent := equalExpense("Rent", 60, me, me, "bob@x.com")
	rent.Expense.GroupID = group.Group.ID
	mustCreateExpense(t, client, rent)
	power := equalExpense("Power", 60, "bob@x.com", "bob@x.com", "carol@x.com")
	power.Expense.GroupID = group.Group.ID
	mustCreateExpense(t, client, power)

	resp, err := client.SimplifyDebts(ctx, &SimplifyDebtsRequest{GroupID: group.Group.ID})
	if err != nil {
		t.Fatalf("SimplifyDebts failed: %v", err)
	}
	if resp.Simplified || resp.Strategy != "pairwise" {
		t.Errorf("expected pairwise plan, got strategy %q simplified %v", resp.Strategy, resp.Simplified)
	}
	want := []calculator.Payment{
		{From: "bob@x.com", To: me, Amount: 30},
		{From: "carol@x.com", To: "bob@x.com", Amount: 30},
	}
	if len(resp.Payments) != len(want) {
		t.Fatalf("expected %v, got %v", want, resp.Payments)
	}
	for i := range want {
		if resp.Payments[i] != want[i] {
			t.Errorf("payment %d: expected %+v, got %+v", i, want[i], resp.Payments[i])
		}
	}

	on := true
	if _, err := client.UpdateGroup(ctx, &UpdateGroupRequest{ID: group.Group.ID, SimplifyDebts: &on}); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	resp, err = client.SimplifyDebts(ctx, &SimplifyDebtsRequest{GroupID: group.Group.ID})
	if err != nil {
		t.Fatalf("SimplifyDebts failed: %v", err)
	}
	if !resp.Simplified || len(resp.Payments) != 1 {
		t.Fatalf("expected one simplified payment, got %+v", resp)
	}
	if p := resp.Payments[0]; p.From != "carol@x.com" || p.To != me || p.Amount != 30 {
		t.Errorf("unexpected payment %+v", p)
	}
}

func TestPaymentLinks(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	if _, err := client.UpdateUser(ctx, &UpdateUserRequest{UPIID: "alice@upi"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if _, err := client.AddFriend(ctx, &AddFriendRequest{Email: "bob@x.com", Name: "Bob", UPIID: "bob@okbank"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	// I owe bob 25; carol owes me 40 and has no handle.
	mustCreateExpense(t, client, equalExpense("Cab", 50, "bob@x.com", me, "bob@x.com"))
	mustCreateExpense(t, client, equalExpense("Snacks", 80, me, me, "carol@x.com"))

	balances, err := client.GetBalances(ctx, &GetBalancesRequest{})
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(balances.PaymentLinks) != 1 {
		t.Fatalf("expected one link, got %+v", balances.PaymentLinks)
	}
	link := balances.PaymentLinks[0]
	if link.From != me || link.To != "bob@x.com" || link.Amount != 25 {
		t.Errorf("unexpected link payment %+v", link.Payment)
	}
	if link.URL != "upi://pay?pa=bob%40okbank&pn=Bob&am=25.00&cu=INR" {
		t.Errorf("unexpected link %q", link.URL)
	}

	plan, err := client.SimplifyDebts(ctx, &SimplifyDebtsRequest{})
	if err != nil {
		t.Fatalf("SimplifyDebts failed: %v", err)
	}
	urls := make(map[string]string)
	for _, l := range plan.PaymentLinks {
		urls[l.From+">"+l.To] = l.URL
	}
	if len(plan.PaymentLinks) != len(plan.Payments) {
		t.Errorf("expected a link per payment, got %+v for %+v", plan.PaymentLinks, plan.Payments)
	}
	// positions: me +15, bob +25, carol -40
	if urls["carol@x.com>"+me] != "upi://pay?pa=alice%40upi&pn=Alice&am=15.00&cu=INR" ||
		urls["carol@x.com>bob@x.com"] != "upi://pay?pa=bob%40okbank&pn=Bob&am=25.00&cu=INR" {
		t.Errorf("unexpected links %v", urls)
	}
}

func TestGetAnalytics(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	dinner := equalExpense("Dinner", 90, me, me, "bob@x.com")
	dinner.Expense.Date = "2024-02-10"
	mustCreateExpense(t, client, dinner)

	taxi := equalExpense("Taxi", 30, me, me, "bob@x.com")
	taxi.Expense.Category = models.CategoryTransportation
	mustCreateExpense(t, client, taxi)

	resp, err := client.GetAnalytics(ctx, &GetAnalyticsRequest{Months: 3})
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if resp.Summary.TotalSpent != 120 || resp.Summary.Count != 2 || resp.Summary.Average != 60 {
		t.Errorf("unexpected summary %+v", resp.Summary)
	}
	if len(resp.Categories) != 2 || resp.Categories[0].Category != models.CategoryFood {
		t.Errorf("unexpected categories %+v", resp.Categories)
	}
	if len(resp.Monthly) != 3 || resp.Monthly[1].Amount != 90 || resp.Monthly[2].Amount != 30 {
		t.Errorf("unexpected monthly totals %+v", resp.Monthly)
	}

	_, err = client.GetAnalytics(ctx, &GetAnalyticsRequest{Months: -1})
	assertCode(t, err, connect.CodeInvalidArgument)
}
