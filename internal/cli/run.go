package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/plot"
	"ledger/internal/storage"
)

const usage = `Usage: ledger [command]

Commands:
  add       Add a transaction (--date --type --amount --category --note)
  list      List transactions (--start --end --type --category --limit)
  export    Export to CSV (--out --start --end)
  summary   Monthly summary (--year --month)
  plot      Plot monthly totals (--months)

Without a command the interactive menu starts.
`

// Run dispatches a subcommand, or starts the interactive menu when
// none is given. It returns the process exit code; operation failures
// are reported rather than crashing.
func Run(ctx context.Context, args []string, store *storage.LedgerStore, renderer plot.Renderer, cfg *config.Config, in io.Reader, out io.Writer) int {
	if len(args) == 0 {
		menu := NewMenu(store, renderer, cfg, in, out)
		menu.Run(ctx)
		return 0
	}

	var err error
	switch args[0] {
	case "add":
		err = runAdd(ctx, args[1:], store, out)
	case "list":
		err = runList(ctx, args[1:], store, cfg, out)
	case "export":
		err = runExport(ctx, args[1:], store, cfg, out)
	case "summary":
		err = runSummary(ctx, args[1:], store, out)
	case "plot":
		err = runPlot(ctx, args[1:], store, renderer, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
	default:
		fmt.Fprintf(out, "Unknown command %q.\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return 1
	}
	return 0
}

func runAdd(ctx context.Context, args []string, store *storage.LedgerStore, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(out)
	date := fs.String("date", time.Now().Format(core.DateLayout), "transaction date (YYYY-MM-DD)")
	txType := fs.String("type", "", "income or expense")
	amount := fs.String("amount", "", "non-negative amount")
	category := fs.String("category", "", "category label")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}

	return addTransaction(ctx, store, out, core.Transaction{
		Date:     *date,
		Type:     core.TxType(*txType),
		Amount:   amt,
		Category: *category,
		Note:     *note,
	})
}

func runList(ctx context.Context, args []string, store *storage.LedgerStore, cfg *config.Config, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(out)
	start := fs.String("start", "", "start date (YYYY-MM-DD, inclusive)")
	end := fs.String("end", "", "end date (YYYY-MM-DD, inclusive)")
	txType := fs.String("type", "", "income or expense")
	category := fs.String("category", "", "exact category match")
	limit := fs.Int("limit", cfg.ListLimit, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return listTransactions(ctx, store, out, storage.Filter{
		Start:    *start,
		End:      *end,
		Type:     core.TxType(*txType),
		Category: *category,
		Limit:    *limit,
	})
}

func runExport(ctx context.Context, args []string, store *storage.LedgerStore, cfg *config.Config, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("out", cfg.ExportPath, "output CSV path")
	start := fs.String("start", "", "start date (YYYY-MM-DD, inclusive)")
	end := fs.String("end", "", "end date (YYYY-MM-DD, inclusive)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return exportCSV(ctx, store, out, *path, *start, *end)
}

func runSummary(ctx context.Context, args []string, store *storage.LedgerStore, out io.Writer) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(out)
	year := fs.Int("year", 0, "year (defaults to current)")
	month := fs.Int("month", 0, "month 1-12 (defaults to current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return showSummary(ctx, store, out, *year, *month)
}

func runPlot(ctx context.Context, args []string, store *storage.LedgerStore, renderer plot.Renderer, out io.Writer) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(out)
	months := fs.Int("months", 12, "trailing months to plot")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return plotMonthly(ctx, store, renderer, out, *months)
}
