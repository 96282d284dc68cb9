package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/plot"
	"ledger/internal/storage"
)

// exportListLimit is the effective "no cap" for export queries.
const exportListLimit = 1_000_000

func addTransaction(ctx context.Context, store *storage.LedgerStore, out io.Writer, tx core.Transaction) error {
	id, err := store.Add(ctx, tx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added transaction %d.\n", id)
	return nil
}

func listTransactions(ctx context.Context, store *storage.LedgerStore, out io.Writer, f storage.Filter) error {
	txs, err := store.List(ctx, f)
	if err != nil {
		return err
	}
	renderTransactions(out, txs)
	return nil
}

func showSummary(ctx context.Context, store *storage.LedgerStore, out io.Writer, year, month int) error {
	sum, err := store.MonthlySummary(ctx, year, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Summary for %04d-%02d: Income: %s, Expenses: %s, Balance: %s\n",
		sum.Year, sum.Month,
		sum.Income.StringFixed(2), sum.Expense.StringFixed(2), sum.Balance.StringFixed(2))
	return nil
}

func showBreakdown(ctx context.Context, store *storage.LedgerStore, out io.Writer, year, month int) error {
	totals, err := store.CategoryBreakdown(ctx, year, month)
	if err != nil {
		return err
	}
	renderBreakdown(out, year, month, totals)
	return nil
}

func exportCSV(ctx context.Context, store *storage.LedgerStore, out io.Writer, path, start, end string) error {
	rows, err := store.List(ctx, storage.Filter{Start: start, End: end, Limit: exportListLimit})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "Nothing to export.")
		return nil
	}

	n, err := export.WriteFile(path, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d rows to %s\n", n, path)
	return nil
}

// plotMonthly renders the trailing window of monthly totals. A nil
// renderer degrades to a warning so stored data is never at risk.
func plotMonthly(ctx context.Context, store *storage.LedgerStore, renderer plot.Renderer, out io.Writer, pastMonths int) error {
	if renderer == nil {
		slog.WarnContext(ctx, "Plot renderer unavailable, skipping plot")
		fmt.Fprintln(out, "Plot renderer unavailable.")
		return nil
	}

	points, err := store.MonthlySeries(ctx, pastMonths)
	if err != nil {
		return err
	}

	labels := make([]string, len(points))
	income := make([]float64, len(points))
	expense := make([]float64, len(points))
	hasData := false
	for i, p := range points {
		labels[i] = p.Label
		income[i] = p.Income.InexactFloat64()
		expense[i] = p.Expense.InexactFloat64()
		if !p.Income.IsZero() || !p.Expense.IsZero() {
			hasData = true
		}
	}
	if !hasData {
		fmt.Fprintln(out, "No data to plot.")
		return nil
	}

	chart, err := renderer.Render(labels, income, expense)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, chart)
	return nil
}
