package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/plot"
	"ledger/internal/storage"
)

const menuHelp = `
Commands:
  add         - add transaction
  list        - list transactions
  edit        - edit by id
  del         - delete by id
  summary     - monthly summary
  cat         - category breakdown
  export      - export CSV
  plot        - plot monthly totals
  help        - show this help
  quit/exit   - exit
`

// Menu is the interactive front end. It performs no business logic:
// every command prompts for fields and calls the store.
type Menu struct {
	store    *storage.LedgerStore
	renderer plot.Renderer
	cfg      *config.Config
	in       *bufio.Scanner
	out      io.Writer
}

func NewMenu(store *storage.LedgerStore, renderer plot.Renderer, cfg *config.Config, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		store:    store,
		renderer: renderer,
		cfg:      cfg,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops until quit/exit or end of input. Operation failures are
// reported and the prompt continues.
func (m *Menu) Run(ctx context.Context) {
	fmt.Fprint(m.out, menuHelp)
	for {
		fmt.Fprint(m.out, "ledger> ")
		if !m.in.Scan() {
			return
		}
		cmd := strings.ToLower(strings.TrimSpace(m.in.Text()))

		var err error
		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return
		case "help":
			fmt.Fprint(m.out, menuHelp)
		case "add":
			err = m.add(ctx)
		case "list":
			err = m.list(ctx)
		case "edit":
			err = m.edit(ctx)
		case "del", "delete":
			err = m.del(ctx)
		case "summary":
			err = m.summary(ctx)
		case "cat":
			err = m.breakdown(ctx)
		case "export":
			err = m.export(ctx)
		case "plot":
			err = plotMonthly(ctx, m.store, m.renderer, m.out, 12)
		default:
			fmt.Fprintln(m.out, "Unknown command. Type 'help' for options.")
		}

		if err != nil {
			fmt.Fprintln(m.out, "Error:", err)
		}
	}
}

// prompt reads one line for the given label; blank input returns def.
func (m *Menu) prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(m.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(m.out, "%s: ", label)
	}
	if !m.in.Scan() {
		return def
	}
	s := strings.TrimSpace(m.in.Text())
	if s == "" {
		return def
	}
	return s
}

func (m *Menu) promptID(label string) (int64, error) {
	s := m.prompt(label, "")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// promptYearMonth returns 0,0 when both are left blank so the store
// defaults to the current month.
func (m *Menu) promptYearMonth() (int, int, error) {
	ys := m.prompt("Year (YYYY, blank for this year)", "")
	ms := m.prompt("Month (1-12, blank for this month)", "")
	if ys == "" || ms == "" {
		return 0, 0, nil
	}
	year, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", ys)
	}
	month, err := strconv.Atoi(ms)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", ms)
	}
	return year, month, nil
}

func (m *Menu) add(ctx context.Context) error {
	date := m.prompt("Date (YYYY-MM-DD)", time.Now().Format(core.DateLayout))
	txType := strings.ToLower(m.prompt("Type (income/expense)", ""))
	amountStr := m.prompt("Amount", "")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	category := m.prompt("Category", "")
	note := m.prompt("Note (optional)", "")

	return addTransaction(ctx, m.store, m.out, core.Transaction{
		Date:     date,
		Type:     core.TxType(txType),
		Amount:   amount,
		Category: category,
		Note:     note,
	})
}

func (m *Menu) list(ctx context.Context) error {
	f := storage.Filter{
		Start:    m.prompt("Start date (YYYY-MM-DD, blank for none)", ""),
		End:      m.prompt("End date (YYYY-MM-DD, blank for none)", ""),
		Category: m.prompt("Category (blank for all)", ""),
		Type:     core.TxType(strings.ToLower(m.prompt("Type (income/expense, blank for all)", ""))),
		Limit:    m.cfg.ListLimit,
	}
	return listTransactions(ctx, m.store, m.out, f)
}

func (m *Menu) edit(ctx context.Context) error {
	id, err := m.promptID("Transaction id")
	if err != nil {
		return err
	}

	current, err := m.store.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		fmt.Fprintln(m.out, "Not found.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Leave blank to keep current.")
	var fields storage.UpdateFields
	if s := m.prompt(fmt.Sprintf("Date [%s]", current.Date), ""); s != "" {
		fields.Date = &s
	}
	if s := strings.ToLower(m.prompt(fmt.Sprintf("Type [%s]", current.Type), "")); s != "" {
		t := core.TxType(s)
		fields.Type = &t
	}
	if s := m.prompt(fmt.Sprintf("Amount [%s]", current.Amount.String()), ""); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		fields.Amount = &amount
	}
	if s := m.prompt(fmt.Sprintf("Category [%s]", current.Category), ""); s != "" {
		fields.Category = &s
	}
	if s := m.prompt(fmt.Sprintf("Note [%s]", current.Note), ""); s != "" {
		fields.Note = &s
	}

	err = m.store.Update(ctx, id, fields)
	switch {
	case errors.Is(err, core.ErrNothingToUpdate):
		fmt.Fprintln(m.out, "Nothing to update.")
		return nil
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(m.out, "Not found.")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintln(m.out, "Transaction updated.")
	return nil
}

func (m *Menu) del(ctx context.Context) error {
	id, err := m.promptID("Transaction id to delete")
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Transaction deleted.")
	return nil
}

func (m *Menu) summary(ctx context.Context) error {
	year, month, err := m.promptYearMonth()
	if err != nil {
		return err
	}
	return showSummary(ctx, m.store, m.out, year, month)
}

func (m *Menu) breakdown(ctx context.Context) error {
	year, month, err := m.promptYearMonth()
	if err != nil {
		return err
	}
	return showBreakdown(ctx, m.store, m.out, year, month)
}

func (m *Menu) export(ctx context.Context) error {
	path := m.prompt("Filename", m.cfg.ExportPath)
	start := m.prompt("Start (YYYY-MM-DD, blank none)", "")
	end := m.prompt("End (YYYY-MM-DD, blank none)", "")
	return exportCSV(ctx, m.store, m.out, path, start, end)
}
