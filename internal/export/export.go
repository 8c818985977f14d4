// Package export writes ledger data as CSV and reads/writes JSON snapshots.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
)

// CSVHeader is the column layout of WriteCSV.
var CSVHeader = []string{
	"Date", "Description", "Amount", "Currency", "Category", "Paid By", "Split With",
	"Split Method", "Payment Method", "Group ID", "Due Date", "Created Date",
}

const createdLayout = "2006-01-02 15:04:05"

// ErrEmptySnapshot is returned when a snapshot carries no ledger sections.
var ErrEmptySnapshot = errors.New("snapshot contains no ledger data")

// WriteCSV writes expenses and settlements as one table, newest date first.
// Settlements appear with category and split method "settlement".
func WriteCSV(w io.Writer, expenses []models.Expense, settlements []models.Settlement, currency string) error {
	rows := make([][]string, 0, len(expenses)+len(settlements))
	for i := range expenses {
		rows = append(rows, expenseRow(&expenses[i], currency))
	}
	for i := range settlements {
		rows = append(rows, settlementRow(&settlements[i], currency))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] > rows[j][0] })

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

func expenseRow(e *models.Expense, currency string) []string {
	method := e.SplitMethod
	if method == "" {
		method = models.SplitEqual
	}
	if e.Currency != "" {
		currency = e.Currency
	}
	return []string{
		e.Date,
		e.Description,
		money.FromFloat(e.Amount).String(),
		currency,
		string(e.Category),
		e.Payer(),
		strings.Join(e.Participants(), "; "),
		string(method),
		e.PaymentMethod,
		e.GroupID,
		e.DueDate,
		formatCreated(e.CreatedAt),
	}
}

func settlementRow(s *models.Settlement, currency string) []string {
	return []string{
		s.Date,
		"Payment Settlement",
		money.FromFloat(s.Amount).String(),
		currency,
		"settlement",
		s.FromUser,
		s.ToUser,
		"settlement",
		s.PaymentMethod,
		s.GroupID,
		"",
		formatCreated(s.CreatedAt),
	}
}

func formatCreated(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(createdLayout)
}

// WriteSnapshot writes snapshot as indented JSON.
func WriteSnapshot(w io.Writer, snapshot *models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a JSON snapshot and normalizes enumerations.
// Missing categories become other and missing split methods become equal.
func ReadSnapshot(r io.Reader) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{}
	if err := json.NewDecoder(r).Decode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.User == nil && snapshot.Expenses == nil && snapshot.Settlements == nil &&
		snapshot.Groups == nil && snapshot.Friends == nil {
		return nil, ErrEmptySnapshot
	}

	for i := range snapshot.Expenses {
		e := &snapshot.Expenses[i]
		category, err := models.ParseCategory(string(e.Category))
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		method, err := models.ParseSplitMethod(string(e.SplitMethod))
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		e.Category, e.SplitMethod = category, method
	}
	return snapshot, nil
}
