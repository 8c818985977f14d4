// Package report computes spending analytics over expenses.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// MonthLayout keys MonthTotal.Month.
const MonthLayout = "2006-01"

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Amount   float64         `json:"amount"`
}

// MonthTotal is the amount spent in one calendar month.
type MonthTotal struct {
	Month  string  `json:"month"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Stats summarizes a list of expenses.
type Stats struct {
	TotalSpent  float64         `json:"total_spent"`
	Count       int             `json:"count"`
	Average     float64         `json:"average"`
	TopCategory models.Category `json:"top_category,omitempty"`
}

// CategoryTotals sums expense amounts per category, largest first.
// Categories without expenses are omitted; an empty category counts as other.
func CategoryTotals(expenses []models.Expense) []CategoryTotal {
	sums := make(map[models.Category]money.Cents)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = models.CategoryOther
		}
		sums[category] += money.FromFloat(e.Amount)
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		if amount == 0 {
			continue
		}
		totals = append(totals, CategoryTotal{Category: category, Amount: amount.Float64()})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// MonthlyTotals returns the spending of the n calendar months ending with the
// month of end, oldest first. Months without expenses are included with a
// zero amount. Expenses with unparseable dates are skipped.
func MonthlyTotals(expenses []models.Expense, end time.Time, n int) []MonthTotal {
	if n <= 0 {
		return nil
	}

	first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	months := make([]MonthTotal, n)
	sums := make([]money.Cents, n)
	index := make(map[string]int, n)
	for i := range months {
		m := first.AddDate(0, i, 0)
		months[i] = MonthTotal{Month: m.Format(MonthLayout), Label: m.Format("Jan 2006")}
		index[months[i].Month] = i
	}

	for _, e := range expenses {
		date, err := time.Parse(models.DateLayout, e.Date)
		if err != nil {
			continue
		}
		if i, ok := index[date.Format(MonthLayout)]; ok {
			sums[i] += money.FromFloat(e.Amount)
		}
	}
	for i := range months {
		months[i].Amount = sums[i].Float64()
	}
	return months
}

// Summary computes total, count, average and the top category of expenses.
func Summary(expenses []models.Expense) Stats {
	var total money.Cents
	for _, e := range expenses {
		total += money.FromFloat(e.Amount)
	}

	stats := Stats{TotalSpent: total.Float64(), Count: len(expenses)}
	if len(expenses) > 0 {
		avg := total.Decimal().Div(decimal.NewFromInt(int64(len(expenses))))
		stats.Average = money.FromDecimal(avg).Float64()
	}
	if totals := CategoryTotals(expenses); len(totals) > 0 {
		stats.TopCategory = totals[0].Category
	}
	return stats
}
