package calculator

import (
	"math"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// Tolerance is the largest accepted difference between the sum of the splits
// and the expense amount.
const Tolerance = 0.01

// ComputeSplit fills in each participant's amount for the given method and
// returns the result as a new slice.
//
//   - equal: total / n for everyone
//   - exact: amounts are kept as entered
//   - percentage: total * percentage / 100
//   - shares: total * shares / sum(shares), unset shares count as 1
//
// The result is not checked against the total; use ValidateSplit for that.
func ComputeSplit(total float64, method models.SplitMethod, participants []models.Split) ([]models.Split, error) {
	if len(participants) == 0 {
		return nil, invalidSplit("must have at least one participant")
	}

	splits := make([]models.Split, len(participants))
	copy(splits, participants)

	switch method {
	case models.SplitEqual, "":
		perPerson := total / float64(len(splits))
		for i := range splits {
			splits[i].Amount = perPerson
		}
	case models.SplitExact:
		// entered amounts stand
	case models.SplitPercentage:
		for i := range splits {
			splits[i].Amount = total * splits[i].Percentage / 100
		}
	case models.SplitShares:
		totalShares := 0
		for i := range splits {
			totalShares += shareCount(splits[i].Shares)
		}
		if totalShares <= 0 {
			return nil, invalidSplit("total shares must be positive")
		}
		for i := range splits {
			splits[i].Amount = total * float64(shareCount(splits[i].Shares)) / float64(totalShares)
		}
	default:
		return nil, invalidSplit("unknown split method %q", method)
	}

	return splits, nil
}

// ValidateSplit checks that a computed split can be persisted: at least one
// participant, no duplicates, well-formed per-method inputs, and amounts that
// add up to total within Tolerance.
func ValidateSplit(total float64, method models.SplitMethod, splits []models.Split) error {
	if len(splits) == 0 {
		return invalidSplit("must have at least one participant")
	}

	seen := make(map[string]bool, len(splits))
	sum := 0.0
	for _, s := range splits {
		if s.Email == "" {
			return invalidSplit("participant email is required")
		}
		if seen[s.Email] {
			return invalidSplit("%s appears more than once", s.Email)
		}
		seen[s.Email] = true

		if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) || s.Amount < 0 {
			return invalidSplit("%s has an invalid amount", s.Email)
		}
		switch method {
		case models.SplitPercentage:
			if s.Percentage < 0 || s.Percentage > 100 {
				return invalidSplit("%s percentage must be between 0 and 100", s.Email)
			}
		case models.SplitShares:
			if s.Shares < 0 {
				return invalidSplit("%s shares cannot be negative", s.Email)
			}
		}
		sum += s.Amount
	}

	if math.Abs(sum-total) > Tolerance {
		return invalidSplit("split amounts total %.2f, expense is %.2f", sum, total)
	}
	return nil
}

// ApplySplit recomputes expense.Splits from its amount and method, sets the
// first payer's amount when it was left empty, and validates the result.
// Exact splits keep the amounts entered for each participant.
func ApplySplit(expense *models.Expense) error {
	if !(expense.Amount > 0) || math.IsInf(expense.Amount, 0) {
		return invalidSplit("amount must be positive")
	}
	if expense.SplitMethod == "" {
		expense.SplitMethod = models.SplitEqual
	}

	splits, err := ComputeSplit(expense.Amount, expense.SplitMethod, expense.Splits)
	if err != nil {
		return err
	}
	if err := ValidateSplit(expense.Amount, expense.SplitMethod, splits); err != nil {
		return err
	}
	expense.Splits = splits

	if len(expense.Payers) == 0 {
		return invalidSplit("a payer is required")
	}
	if expense.Payers[0].Email == "" {
		return invalidSplit("payer email is required")
	}
	if len(expense.Payers) == 1 && expense.Payers[0].Amount == 0 {
		expense.Payers[0].Amount = expense.Amount
	}
	return nil
}

func shareCount(shares int) int {
	if shares <= 0 {
		return 1
	}
	return shares
}
