package calculator

import (
	"math"
	"testing"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// applyPayments executes a plan against signed balances and returns the result.
func applyPayments(balances map[string]float64, payments []Payment) map[string]float64 {
	out := make(map[string]float64, len(balances))
	for person, amount := range balances {
		out[person] = amount
	}
	for _, p := range payments {
		out[p.From] += p.Amount
		out[p.To] -= p.Amount
	}
	return out
}

func countSides(balances map[string]float64) (creditors, debtors int) {
	for _, amount := range balances {
		switch {
		case math.Abs(amount) < 0.01:
		case amount > 0:
			creditors++
		default:
			debtors++
		}
	}
	return creditors, debtors
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]float64
	}{
		{
			name:     "two pairs",
			balances: map[string]float64{"B": 30, "C": -30, "D": 10, "E": -10},
		},
		{
			name:     "one creditor many debtors",
			balances: map[string]float64{"A": 60, "B": -20, "C": -20, "D": -20},
		},
		{
			name:     "uneven amounts",
			balances: map[string]float64{"A": 45.5, "B": 4.5, "C": -12.25, "D": -37.75},
		},
		{
			name:     "fractions of a cent",
			balances: map[string]float64{"A": 33.333333, "B": 33.333333, "C": -66.666666},
		},
		{
			name:     "already settled",
			balances: map[string]float64{"A": 0.004, "B": -0.004},
		},
		{
			name:     "below a cent but rounds up",
			balances: map[string]float64{"A": 0.006, "B": -0.006},
		},
		{
			name:     "empty",
			balances: map[string]float64{},
		},
	}

	strategies := map[string]Strategy{
		StrategySequential:   Sequential,
		StrategyLargestFirst: LargestFirst,
	}

	for _, tt := range tests {
		for name, strategy := range strategies {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				payments := Simplify(strategy, PositionsFromMap(tt.balances))

				for _, p := range payments {
					if p.Amount <= 0 {
						t.Errorf("non-positive payment %+v", p)
					}
					if p.From == p.To {
						t.Errorf("self payment %+v", p)
					}
				}

				after := applyPayments(tt.balances, payments)
				for person, amount := range after {
					if math.Abs(amount) >= 0.01 {
						t.Errorf("%s left with %v after plan %v", person, amount, payments)
					}
				}

				creditors, debtors := countSides(tt.balances)
				bound := 0
				if creditors+debtors > 0 {
					bound = creditors + debtors - 1
				}
				if len(payments) > bound {
					t.Errorf("%d payments for %d creditors and %d debtors", len(payments), creditors, debtors)
				}
			})
		}
	}
}

func TestSimplifyDebts_SubCentBalancesAreSettled(t *testing.T) {
	for _, balances := range []map[string]float64{
		{"A": 0.006, "B": -0.006},
		{"A": 0.0099, "B": -0.005, "C": -0.0049},
	} {
		if payments := SimplifyDebts(balances); len(payments) != 0 {
			t.Errorf("SimplifyDebts(%v) = %v, want no payments", balances, payments)
		}
	}

	payments := SimplifyDebts(map[string]float64{"A": 0.01, "B": -0.01})
	if len(payments) != 1 || payments[0] != (Payment{From: "B", To: "A", Amount: 0.01}) {
		t.Errorf("got %v, want a single payment of 0.01 from B to A", payments)
	}
}

func TestSimplifyDebts_SequentialOrder(t *testing.T) {
	payments := SimplifyDebts(map[string]float64{"B": 30, "C": -30, "D": 10, "E": -10})
	want := []Payment{
		{From: "C", To: "B", Amount: 30},
		{From: "E", To: "D", Amount: 10},
	}
	if len(payments) != len(want) {
		t.Fatalf("got %v, want %v", payments, want)
	}
	for i := range want {
		if payments[i] != want[i] {
			t.Errorf("payment %d = %+v, want %+v", i, payments[i], want[i])
		}
	}
}

func TestLargestFirst_MatchesBiggestBalances(t *testing.T) {
	positions := []Position{
		{Person: "A", Amount: 1000},
		{Person: "B", Amount: 5000},
		{Person: "C", Amount: -1000},
		{Person: "D", Amount: -5000},
	}
	payments := LargestFirst(positions)
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %v", payments)
	}
	if payments[0] != (Payment{From: "D", To: "B", Amount: 50}) {
		t.Errorf("first payment = %+v", payments[0])
	}

	// Input positions are left untouched.
	if positions[1].Amount != money.Cents(5000) {
		t.Errorf("input mutated: %+v", positions)
	}
}

func TestSimplify_UnbalancedInputLeavesRemainder(t *testing.T) {
	payments := SimplifyDebts(map[string]float64{"A": 50, "B": -20})
	if len(payments) != 1 || payments[0].Amount != 20 {
		t.Errorf("got %v, want a single payment of 20", payments)
	}
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"", StrategySequential, StrategyLargestFirst} {
		if _, err := StrategyByName(name); err != nil {
			t.Errorf("StrategyByName(%q) failed: %v", name, err)
		}
	}
	if _, err := StrategyByName("flow"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
