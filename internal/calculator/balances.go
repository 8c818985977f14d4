package calculator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// Balances is the reference person's view of the ledger.
// Both maps hold positive amounts; settled people are omitted.
type Balances struct {
	// OweThem is what the reference person owes each person.
	OweThem map[string]float64 `json:"owe_them"`

	// OwedByThem is what each person owes the reference person.
	OwedByThem map[string]float64 `json:"owed_by_them"`
}

// PersonBalance is one entry of a ranked balance list.
// Positive Amount means the person owes the reference person.
type PersonBalance struct {
	Person string  `json:"person"`
	Amount float64 `json:"amount"`
}

// Totals summarises a Balances value.
type Totals struct {
	OweThem    float64 `json:"owe_them"`
	OwedByThem float64 `json:"owed_by_them"`
	Net        float64 `json:"net"` // OwedByThem - OweThem
}

// AggregateBalances folds expenses and settlements into balances relative to
// reference. Only the first payer of an expense is considered, and only
// amounts between the reference and another person are tracked:
//
//   - reference paid: every other participant owes the reference their split
//   - someone else paid and the reference participated: the reference owes
//     the payer their own split
//   - settlement from the reference: credited to the receiver's entry
//   - settlement to the reference: debited from the sender's entry
//
// Sums are kept unrounded and each person's total is rounded to cents once.
// Entries whose magnitude is below 0.01 are dropped. A malformed record fails
// the whole aggregation with a *RecordError.
func AggregateBalances(reference string, expenses []models.Expense, settlements []models.Settlement) (Balances, error) {
	acc := make(map[string]decimal.Decimal)

	for i := range expenses {
		expense := &expenses[i]
		if err := checkExpense(expense); err != nil {
			return Balances{}, err
		}

		payer := expense.Payer()
		for _, split := range expense.Splits {
			if split.Email == payer {
				continue
			}
			share := decimal.NewFromFloat(split.Amount)
			if payer == reference {
				acc[split.Email] = acc[split.Email].Add(share)
			} else if split.Email == reference {
				acc[payer] = acc[payer].Sub(share)
			}
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if err := checkSettlement(s); err != nil {
			return Balances{}, err
		}

		amount := decimal.NewFromFloat(s.Amount)
		if s.FromUser == reference {
			acc[s.ToUser] = acc[s.ToUser].Add(amount)
		} else if s.ToUser == reference {
			acc[s.FromUser] = acc[s.FromUser].Sub(amount)
		}
	}

	balances := Balances{
		OweThem:    make(map[string]float64),
		OwedByThem: make(map[string]float64),
	}
	for person, exact := range acc {
		if money.Settled(exact) {
			continue
		}
		amount := money.FromDecimal(exact)
		if amount > 0 {
			balances.OwedByThem[person] = amount.Float64()
		} else {
			balances.OweThem[person] = amount.Abs().Float64()
		}
	}
	return balances, nil
}

// Net returns the signed balance per person: positive when they owe the
// reference person, negative when the reference person owes them.
func (b Balances) Net() map[string]float64 {
	net := make(map[string]float64, len(b.OweThem)+len(b.OwedByThem))
	for person, amount := range b.OwedByThem {
		net[person] = amount
	}
	for person, amount := range b.OweThem {
		net[person] = -amount
	}
	return net
}

// Totals sums both sides in cents.
func (b Balances) Totals() Totals {
	var owe, owed money.Cents
	for _, amount := range b.OweThem {
		owe += money.FromFloat(amount)
	}
	for _, amount := range b.OwedByThem {
		owed += money.FromFloat(amount)
	}
	return Totals{
		OweThem:    owe.Float64(),
		OwedByThem: owed.Float64(),
		Net:        (owed - owe).Float64(),
	}
}

// Ranked returns every non-zero balance ordered by descending magnitude,
// ties broken by person key.
func (b Balances) Ranked() []PersonBalance {
	ranked := make([]PersonBalance, 0, len(b.OweThem)+len(b.OwedByThem))
	for person, amount := range b.Net() {
		ranked = append(ranked, PersonBalance{Person: person, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].Amount), math.Abs(ranked[j].Amount)
		if ai == aj {
			return ranked[i].Person < ranked[j].Person
		}
		return ai > aj
	})
	return ranked
}

// NetPositions computes every person's net position across the whole ledger:
// positive means the person is owed money, negative means they owe. Sums are
// kept unrounded until the end, then rounded to cents so that the positions
// still sum to zero, which makes them a valid input for the debt simplifier.
func NetPositions(expenses []models.Expense, settlements []models.Settlement) (map[string]money.Cents, error) {
	exact := make(map[string]decimal.Decimal)

	for i := range expenses {
		expense := &expenses[i]
		if err := checkExpense(expense); err != nil {
			return nil, err
		}
		payer := expense.Payer()
		for _, split := range expense.Splits {
			if split.Email == payer {
				continue
			}
			share := decimal.NewFromFloat(split.Amount)
			exact[payer] = exact[payer].Add(share)
			exact[split.Email] = exact[split.Email].Sub(share)
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if err := checkSettlement(s); err != nil {
			return nil, err
		}
		amount := decimal.NewFromFloat(s.Amount)
		exact[s.FromUser] = exact[s.FromUser].Add(amount)
		exact[s.ToUser] = exact[s.ToUser].Sub(amount)
	}

	for person, amount := range exact {
		if money.Settled(amount) {
			delete(exact, person)
		}
	}
	return roundPositions(exact), nil
}

// PairwiseDebts nets what each pair of people owe one another without
// routing money through anyone else. It returns one payment per pair that is
// not settled, ordered by debtor then creditor.
func PairwiseDebts(expenses []models.Expense, settlements []models.Settlement) ([]Payment, error) {
	type pair struct{ a, b string } // a < b; positive means a owes b

	owed := make(map[pair]decimal.Decimal)
	add := func(debtor, creditor string, amount decimal.Decimal) {
		if debtor < creditor {
			k := pair{debtor, creditor}
			owed[k] = owed[k].Add(amount)
		} else {
			k := pair{creditor, debtor}
			owed[k] = owed[k].Sub(amount)
		}
	}

	for i := range expenses {
		expense := &expenses[i]
		if err := checkExpense(expense); err != nil {
			return nil, err
		}
		payer := expense.Payer()
		for _, split := range expense.Splits {
			if split.Email != payer {
				add(split.Email, payer, decimal.NewFromFloat(split.Amount))
			}
		}
	}

	for i := range settlements {
		s := &settlements[i]
		if err := checkSettlement(s); err != nil {
			return nil, err
		}
		add(s.ToUser, s.FromUser, decimal.NewFromFloat(s.Amount))
	}

	payments := []Payment{}
	for k, amount := range owed {
		if money.Settled(amount) {
			continue
		}
		c := money.FromDecimal(amount)
		if c > 0 {
			payments = append(payments, Payment{From: k.a, To: k.b, Amount: c.Float64()})
		} else {
			payments = append(payments, Payment{From: k.b, To: k.a, Amount: c.Abs().Float64()})
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].From == payments[j].From {
			return payments[i].To < payments[j].To
		}
		return payments[i].From < payments[j].From
	})
	return payments, nil
}

// roundPositions rounds each position to cents. Any cents lost or gained by
// rounding are moved onto the entries with the largest rounding error, so the
// rounded total matches the rounded exact total.
func roundPositions(exact map[string]decimal.Decimal) map[string]money.Cents {
	type rounding struct {
		person string
		err    decimal.Decimal // exact - rounded
	}

	rounded := make(map[string]money.Cents, len(exact))
	errs := make([]rounding, 0, len(exact))
	total := decimal.Zero
	var sum money.Cents
	for person, amount := range exact {
		c := money.FromDecimal(amount)
		rounded[person] = c
		sum += c
		total = total.Add(amount)
		errs = append(errs, rounding{person: person, err: amount.Sub(c.Decimal())})
	}

	residual := money.FromDecimal(total) - sum
	if residual == 0 {
		return rounded
	}

	step := money.Cents(1)
	if residual < 0 {
		step = -1
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].err.Equal(errs[j].err) {
			return errs[i].person < errs[j].person
		}
		if step > 0 {
			return errs[i].err.GreaterThan(errs[j].err)
		}
		return errs[i].err.LessThan(errs[j].err)
	})
	for i := 0; residual != 0; i = (i + 1) % len(errs) {
		rounded[errs[i].person] += step
		residual -= step
	}
	return rounded
}

// NextPayer suggests who should pick up the next bill: the person other than
// reference who has consumed the most relative to what they paid. Settlements
// are not considered. Returns "" when nobody qualifies.
func NextPayer(reference string, expenses []models.Expense) string {
	consumed := make(map[string]decimal.Decimal)
	for i := range expenses {
		expense := &expenses[i]
		payer := expense.Payer()
		if payer == "" {
			continue
		}
		for _, split := range expense.Splits {
			share := decimal.NewFromFloat(split.Amount)
			consumed[split.Email] = consumed[split.Email].Add(share)
			consumed[payer] = consumed[payer].Sub(share)
		}
	}

	next := ""
	var best money.Cents
	for person, exact := range consumed {
		if person == reference {
			continue
		}
		amount := money.FromDecimal(exact)
		if next == "" || amount > best || (amount == best && person < next) {
			next, best = person, amount
		}
	}
	return next
}

func checkExpense(e *models.Expense) error {
	fail := func(field string) error {
		return &RecordError{Kind: "expense", ID: e.ID, Field: field}
	}
	if !(e.Amount > 0) || math.IsInf(e.Amount, 0) {
		return fail("amount")
	}
	if e.Payer() == "" {
		return fail("payers")
	}
	if len(e.Splits) == 0 {
		return fail("splits")
	}
	for _, s := range e.Splits {
		if s.Email == "" || !money.Valid(s.Amount) {
			return fail("splits")
		}
	}
	return nil
}

func checkSettlement(s *models.Settlement) error {
	fail := func(field string) error {
		return &RecordError{Kind: "settlement", ID: s.ID, Field: field}
	}
	if s.FromUser == "" {
		return fail("from_user")
	}
	if s.ToUser == "" || s.ToUser == s.FromUser {
		return fail("to_user")
	}
	if !(s.Amount > 0) || math.IsInf(s.Amount, 0) {
		return fail("amount")
	}
	return nil
}
