package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ledger/internal/core"
)

func renderTransactions(out io.Writer, txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDate\tType\tAmount\tCategory\tNote")
	for _, t := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Type, t.Amount.StringFixed(2), t.Category, t.Note)
	}
	w.Flush()
}

func renderBreakdown(out io.Writer, year, month int, totals []core.CategoryTotal) {
	if len(totals) == 0 {
		fmt.Fprintln(out, "No category data for this period.")
		return
	}

	if year != 0 && month != 0 {
		fmt.Fprintf(out, "Category breakdown for %04d-%02d:\n", year, month)
	} else {
		fmt.Fprintln(out, "Category breakdown for the current month:")
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tType\tTotal")
	for _, ct := range totals {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ct.Category, ct.Type, ct.Total.StringFixed(2))
	}
	w.Flush()
}
