package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

func sampleExpense() models.Expense {
	return models.Expense{
		ID:          "e1",
		Description: "Dinner, with dessert",
		Amount:      90,
		Date:        "2024-04-02",
		Category:    models.CategoryFood,
		Payers:      []models.Payer{{Email: "alice@x.com", Amount: 90}},
		Splits: []models.Split{
			{Email: "alice@x.com", Amount: 30},
			{Email: "bob@x.com", Amount: 30},
			{Email: "carol@x.com", Amount: 30},
		},
		CreatedAt: 1712000000,
	}
}

func TestWriteCSV(t *testing.T) {
	settlement := models.Settlement{ID: "s1", FromUser: "bob@x.com", ToUser: "alice@x.com", Amount: 30, Date: "2024-04-05"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Expense{sampleExpense()}, []models.Settlement{settlement}, "EUR"))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, CSVHeader, records[0])

	// newest first: the settlement is dated after the expense
	require.Equal(t, []string{
		"2024-04-05", "Payment Settlement", "30.00", "EUR", "settlement", "bob@x.com", "alice@x.com",
		"settlement", "", "", "", "",
	}, records[1])
	require.Equal(t, []string{
		"2024-04-02", "Dinner, with dessert", "90.00", "EUR", "food", "alice@x.com",
		"alice@x.com; bob@x.com; carol@x.com", "equal", "", "", "", "2024-04-01 19:33:20",
	}, records[2])
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, nil, "USD"))
	require.Equal(t, strings.Join(CSVHeader, ",")+"\n", buf.String())
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := &models.Snapshot{
		User:        &models.User{ID: "u1", Email: "alice@x.com", FullName: "Alice", DefaultCurrency: "USD"},
		Expenses:    []models.Expense{sampleExpense()},
		Settlements: []models.Settlement{},
		Groups:      []models.Group{{ID: "g1", Name: "Trip", Members: []string{"alice@x.com"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, in))

	out, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, in.User, out.User)
	require.Equal(t, in.Groups, out.Groups)
	require.Empty(t, out.Settlements)
	require.NotNil(t, out.Settlements)
	require.Nil(t, out.Friends)
	require.Equal(t, models.SplitEqual, out.Expenses[0].SplitMethod)
}

func TestReadSnapshotNormalizes(t *testing.T) {
	out, err := ReadSnapshot(strings.NewReader(`{"expenses":[{"id":"e1","amount":5}]}`))
	require.NoError(t, err)
	require.Equal(t, models.CategoryOther, out.Expenses[0].Category)
	require.Equal(t, models.SplitEqual, out.Expenses[0].SplitMethod)
}

func TestReadSnapshotErrors(t *testing.T) {
	tests := map[string]string{
		"not json":         `expenses: []`,
		"unknown category": `{"expenses":[{"category":"travel"}]}`,
		"unknown method":   `{"expenses":[{"split_method":"weighted"}]}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(input))
			require.Error(t, err)
		})
	}

	_, err := ReadSnapshot(strings.NewReader(`{"exported_at":"2024-01-01T00:00:00Z"}`))
	require.ErrorIs(t, err, ErrEmptySnapshot)
}
