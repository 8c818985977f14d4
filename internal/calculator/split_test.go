package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		method       models.SplitMethod
		participants []models.Split
		wantErr      bool
		want         []float64
	}{
		{
			name:   "equal three ways",
			total:  90,
			method: models.SplitEqual,
			participants: []models.Split{
				{Email: "a@x.com"}, {Email: "b@x.com"}, {Email: "c@x.com"},
			},
			want: []float64{30, 30, 30},
		},
		{
			name:   "percentage 60/40",
			total:  100,
			method: models.SplitPercentage,
			participants: []models.Split{
				{Email: "a@x.com", Percentage: 60},
				{Email: "b@x.com", Percentage: 40},
			},
			want: []float64{60, 40},
		},
		{
			name:   "fractional percentages",
			total:  200,
			method: models.SplitPercentage,
			participants: []models.Split{
				{Email: "a@x.com", Percentage: 33.5},
				{Email: "b@x.com", Percentage: 66.5},
			},
			want: []float64{67, 133},
		},
		{
			name:   "shares 1:3",
			total:  100,
			method: models.SplitShares,
			participants: []models.Split{
				{Email: "a@x.com", Shares: 1},
				{Email: "b@x.com", Shares: 3},
			},
			want: []float64{25, 75},
		},
		{
			name:   "unset shares count as one",
			total:  60,
			method: models.SplitShares,
			participants: []models.Split{
				{Email: "a@x.com"},
				{Email: "b@x.com", Shares: 2},
			},
			want: []float64{20, 40},
		},
		{
			name:   "exact amounts are kept",
			total:  50,
			method: models.SplitExact,
			participants: []models.Split{
				{Email: "a@x.com", Amount: 12.5},
				{Email: "b@x.com", Amount: 37.5},
			},
			want: []float64{12.5, 37.5},
		},
		{
			name:         "no participants should error",
			total:        10,
			method:       models.SplitEqual,
			participants: []models.Split{},
			wantErr:      true,
		},
		{
			name:         "unknown method should error",
			total:        10,
			method:       "weighted",
			participants: []models.Split{{Email: "a@x.com"}},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplit(tt.total, tt.method, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSplitConfiguration) {
					t.Errorf("expected ErrInvalidSplitConfiguration, got %v", err)
				}
				return
			}
			if len(splits) != len(tt.want) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.want))
			}
			sum := 0.0
			for i, s := range splits {
				if math.Abs(s.Amount-tt.want[i]) > 0.01 {
					t.Errorf("%s amount = %v, want %v", s.Email, s.Amount, tt.want[i])
				}
				sum += s.Amount
			}
			if math.Abs(sum-tt.total) > Tolerance {
				t.Errorf("split total = %v, want %v", sum, tt.total)
			}
		})
	}
}

func TestComputeSplit_EqualIsExact(t *testing.T) {
	for n := 1; n <= 9; n++ {
		participants := make([]models.Split, n)
		for i := range participants {
			participants[i] = models.Split{Email: string(rune('a'+i)) + "@x.com"}
		}
		total := 100.0
		splits, err := ComputeSplit(total, models.SplitEqual, participants)
		if err != nil {
			t.Fatalf("ComputeSplit failed: %v", err)
		}
		for _, s := range splits {
			if s.Amount != total/float64(n) {
				t.Errorf("n=%d: %s amount = %v, want %v", n, s.Email, s.Amount, total/float64(n))
			}
		}
	}
}

func TestComputeSplit_DoesNotMutateInput(t *testing.T) {
	participants := []models.Split{{Email: "a@x.com"}, {Email: "b@x.com"}}
	if _, err := ComputeSplit(10, models.SplitEqual, participants); err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	if participants[0].Amount != 0 {
		t.Errorf("input was modified: %+v", participants[0])
	}
}

func TestValidateSplit(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		method  models.SplitMethod
		splits  []models.Split
		wantErr bool
	}{
		{
			name:   "exact within tolerance",
			total:  100,
			method: models.SplitExact,
			splits: []models.Split{{Email: "a", Amount: 33.34}, {Email: "b", Amount: 33.33}, {Email: "c", Amount: 33.33}},
		},
		{
			name:    "exact off by more than a cent",
			total:   100,
			method:  models.SplitExact,
			splits:  []models.Split{{Email: "a", Amount: 50}, {Email: "b", Amount: 49}},
			wantErr: true,
		},
		{
			name:    "percentages not adding to 100",
			total:   100,
			method:  models.SplitPercentage,
			splits:  []models.Split{{Email: "a", Percentage: 50, Amount: 50}, {Email: "b", Percentage: 40, Amount: 40}},
			wantErr: true,
		},
		{
			name:    "percentage out of range",
			total:   100,
			method:  models.SplitPercentage,
			splits:  []models.Split{{Email: "a", Percentage: 120, Amount: 120}, {Email: "b", Percentage: -20, Amount: -20}},
			wantErr: true,
		},
		{
			name:    "duplicate participant",
			total:   20,
			method:  models.SplitEqual,
			splits:  []models.Split{{Email: "a", Amount: 10}, {Email: "a", Amount: 10}},
			wantErr: true,
		},
		{
			name:    "empty",
			total:   20,
			method:  models.SplitEqual,
			wantErr: true,
		},
		{
			name:    "negative shares",
			total:   20,
			method:  models.SplitShares,
			splits:  []models.Split{{Email: "a", Shares: -1, Amount: 20}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplit(tt.total, tt.method, tt.splits)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSplitConfiguration) {
				t.Errorf("expected ErrInvalidSplitConfiguration, got %v", err)
			}
		})
	}
}

func TestApplySplit(t *testing.T) {
	t.Run("fills splits and payer amount", func(t *testing.T) {
		expense := &models.Expense{
			Amount: 90,
			Payers: []models.Payer{{Email: "a"}},
			Splits: []models.Split{{Email: "a"}, {Email: "b"}, {Email: "c"}},
		}
		if err := ApplySplit(expense); err != nil {
			t.Fatalf("ApplySplit failed: %v", err)
		}
		if expense.SplitMethod != models.SplitEqual {
			t.Errorf("method = %q, want equal", expense.SplitMethod)
		}
		if expense.Payers[0].Amount != 90 {
			t.Errorf("payer amount = %v, want 90", expense.Payers[0].Amount)
		}
		for _, s := range expense.Splits {
			if s.Amount != 30 {
				t.Errorf("%s amount = %v, want 30", s.Email, s.Amount)
			}
		}
	})

	t.Run("exact amounts are frozen", func(t *testing.T) {
		expense := &models.Expense{
			Amount:      40,
			SplitMethod: models.SplitExact,
			Payers:      []models.Payer{{Email: "a"}},
			Splits:      []models.Split{{Email: "a", Amount: 10}, {Email: "b", Amount: 30}},
		}
		if err := ApplySplit(expense); err != nil {
			t.Fatalf("ApplySplit failed: %v", err)
		}
		if expense.Splits[1].Amount != 30 {
			t.Errorf("b amount = %v, want 30", expense.Splits[1].Amount)
		}
	})

	t.Run("missing payer", func(t *testing.T) {
		expense := &models.Expense{Amount: 10, Splits: []models.Split{{Email: "a"}}}
		if err := ApplySplit(expense); !errors.Is(err, ErrInvalidSplitConfiguration) {
			t.Errorf("expected ErrInvalidSplitConfiguration, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		expense := &models.Expense{Amount: 0, Payers: []models.Payer{{Email: "a"}}, Splits: []models.Split{{Email: "a"}}}
		if err := ApplySplit(expense); !errors.Is(err, ErrInvalidSplitConfiguration) {
			t.Errorf("expected ErrInvalidSplitConfiguration, got %v", err)
		}
	})
}
