// Package export writes transactions to a CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"ledger/internal/core"
)

// Header is the column order of every export file.
var Header = []string{"id", "date", "type", "amount", "category", "note"}

// Record formats one transaction as a CSV row in Header order.
func Record(t core.Transaction) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Date,
		string(t.Type),
		t.Amount.String(),
		t.Category,
		t.Note,
	}
}

// WriteFile writes the header plus one row per transaction and
// returns the number of rows written. Callers are expected to skip
// the call entirely when there is nothing to export, so an empty
// slice still produces a header-only file.
func WriteFile(path string, rows []core.Transaction) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range rows {
		if err := w.Write(Record(t)); err != nil {
			return 0, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close export file: %w", err)
	}

	slog.Info("Transactions exported", "path", path, "rows", len(rows))
	return len(rows), nil
}
