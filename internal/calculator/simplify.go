package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// Payment is one instruction of a payoff plan: From pays To the Amount.
type Payment struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Position is a person's signed balance in a simplification input.
// Positive amounts are owed money (creditors), negative amounts owe money.
type Position struct {
	Person string
	Amount money.Cents
}

// Strategy reduces ordered positions to a list of payments.
type Strategy func(positions []Position) []Payment

// Names accepted by StrategyByName.
const (
	StrategySequential   = "sequential"
	StrategyLargestFirst = "largest_first"
)

// StrategyByName resolves a configured strategy name. Empty means sequential.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategySequential:
		return Sequential, nil
	case StrategyLargestFirst:
		return LargestFirst, nil
	}
	return nil, fmt.Errorf("unknown simplify strategy %q", name)
}

// SimplifyDebts produces payments that zero every balance in balances using
// the Sequential strategy. People are visited in ascending key order so the
// plan is deterministic.
func SimplifyDebts(balances map[string]float64) []Payment {
	return Simplify(Sequential, PositionsFromMap(balances))
}

// Simplify runs strategy over positions.
func Simplify(strategy Strategy, positions []Position) []Payment {
	if strategy == nil {
		strategy = Sequential
	}
	return strategy(positions)
}

// PositionsFromMap converts a signed balance map into positions ordered by
// person key. Balances below 0.01 in magnitude are settled and left out
// before rounding to cents.
func PositionsFromMap(balances map[string]float64) []Position {
	positions := make([]Position, 0, len(balances))
	for person, amount := range balances {
		exact := decimal.NewFromFloat(amount)
		if money.Settled(exact) {
			continue
		}
		positions = append(positions, Position{Person: person, Amount: money.FromDecimal(exact)})
	}
	sortByPerson(positions)
	return positions
}

// PositionsFromCents converts a cents map into positions ordered by person key.
func PositionsFromCents(balances map[string]money.Cents) []Position {
	positions := make([]Position, 0, len(balances))
	for person, amount := range balances {
		positions = append(positions, Position{Person: person, Amount: amount})
	}
	sortByPerson(positions)
	return positions
}

// Sequential matches the first open creditor against the first open debtor,
// in the order the positions were given, until either side runs out. It is
// not guaranteed to find the fewest payments, but never emits more than
// creditors + debtors - 1 for a balanced input.
func Sequential(positions []Position) []Payment {
	creditors, debtors := partition(positions)
	return match(creditors, debtors)
}

// LargestFirst sorts creditors and debtors by descending magnitude before
// matching them, which tends to close the biggest balances in fewer payments.
func LargestFirst(positions []Position) []Payment {
	creditors, debtors := partition(positions)
	byMagnitude := func(side []Position) {
		sort.SliceStable(side, func(i, j int) bool {
			if side[i].Amount == side[j].Amount {
				return side[i].Person < side[j].Person
			}
			return side[i].Amount > side[j].Amount
		})
	}
	byMagnitude(creditors)
	byMagnitude(debtors)
	return match(creditors, debtors)
}

// partition splits positions into creditors and debtors, both carrying
// positive magnitudes. Settled positions are dropped.
func partition(positions []Position) (creditors, debtors []Position) {
	for _, p := range positions {
		switch {
		case p.Amount.IsZero():
		case p.Amount > 0:
			creditors = append(creditors, p)
		default:
			debtors = append(debtors, Position{Person: p.Person, Amount: -p.Amount})
		}
	}
	return creditors, debtors
}

func match(creditors, debtors []Position) []Payment {
	var payments []Payment
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		settle := money.Min(creditors[i].Amount, debtors[j].Amount)
		payments = append(payments, Payment{
			From:   debtors[j].Person,
			To:     creditors[i].Person,
			Amount: settle.Float64(),
		})

		creditors[i].Amount -= settle
		debtors[j].Amount -= settle

		if creditors[i].Amount.IsZero() {
			i++
		}
		if debtors[j].Amount.IsZero() {
			j++
		}
	}
	return payments
}

func sortByPerson(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Person < positions[j].Person
	})
}
