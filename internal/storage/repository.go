package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultListLimit caps unbounded list queries.
const DefaultListLimit = 100

// LedgerStore is the single data component of the application. Every
// operation is one statement (or one short transaction) against the
// transactions table.
type LedgerStore struct {
	db *sqlx.DB
}

func NewLedgerStore(dbPath string) (*LedgerStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &LedgerStore{db: db}, nil
}

func (s *LedgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add inserts a new transaction and returns its assigned id.
func (s *LedgerStore) Add(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO transactions (date, type, amount, category, note)
		VALUES (:date, :type, :amount, :category, :note)`, tx)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", id,
		"date", tx.Date,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category)

	return id, nil
}

// Filter narrows List results. Zero values mean "no constraint";
// Limit <= 0 falls back to DefaultListLimit.
type Filter struct {
	Start    string // inclusive, YYYY-MM-DD
	End      string // inclusive, YYYY-MM-DD
	Category string // exact match
	Type     core.TxType
	Limit    int
}

// List returns transactions matching every provided filter, ordered
// by date descending then id descending.
func (s *LedgerStore) List(ctx context.Context, f Filter) ([]core.Transaction, error) {
	q := `SELECT id, date, type, amount, category, note FROM transactions WHERE 1=1`
	var args []any

	if f.Start != "" {
		q += ` AND date >= ?`
		args = append(args, f.Start)
	}
	if f.End != "" {
		q += ` AND date <= ?`
		args = append(args, f.End)
	}
	if f.Category != "" {
		q += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return nil, err
		}
		q += ` AND type = ?`
		args = append(args, f.Type)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q += ` ORDER BY date DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var txs []core.Transaction
	if err := s.db.SelectContext(ctx, &txs, q, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Get returns the transaction with the given id, or core.ErrNotFound.
func (s *LedgerStore) Get(ctx context.Context, id int64) (core.Transaction, error) {
	var tx core.Transaction
	err := s.db.GetContext(ctx, &tx, `
		SELECT id, date, type, amount, category, note
		FROM transactions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// UpdateFields is a sparse update: only non-nil fields are written.
type UpdateFields struct {
	Date     *string
	Type     *core.TxType
	Amount   *decimal.Decimal
	Category *string
	Note     *string
}

func (f UpdateFields) validate() error {
	if f.Date != nil {
		if err := core.ValidateDate(*f.Date); err != nil {
			return err
		}
	}
	if f.Type != nil {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.Amount != nil {
		if err := core.ValidateAmount(*f.Amount); err != nil {
			return err
		}
	}
	if f.Category != nil && strings.TrimSpace(*f.Category) == "" {
		return core.ErrEmptyCategory
	}
	return nil
}

// Update changes only the supplied fields. It returns
// core.ErrNothingToUpdate when no field is supplied and
// core.ErrNotFound when the id does not exist; in both cases nothing
// is written.
func (s *LedgerStore) Update(ctx context.Context, id int64, f UpdateFields) error {
	if err := f.validate(); err != nil {
		return err
	}

	var sets []string
	var args []any
	if f.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *f.Date)
	}
	if f.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *f.Type)
	}
	if f.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *f.Amount)
	}
	if f.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *f.Category)
	}
	if f.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *f.Note)
	}
	if len(sets) == 0 {
		return core.ErrNothingToUpdate
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "fields", len(sets))
	return nil
}

// Delete removes the transaction. A missing id is a silent no-op.
func (s *LedgerStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	n, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "existed", n > 0)
	return nil
}

// yearMonth normalizes the optional year/month arguments, defaulting
// to the current calendar year and month.
func yearMonth(year, month int) (int, int) {
	if year == 0 || month == 0 {
		now := time.Now()
		year = now.Year()
		month = int(now.Month())
	}
	return year, month
}

// MonthlySummary sums income and expense separately within the given
// month. Zero year/month default to the current one. A side with no
// transactions sums to zero.
func (s *LedgerStore) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	year, month = yearMonth(year, month)
	sum := core.MonthlySummary{Year: year, Month: month}

	rows := []struct {
		Type  core.TxType     `db:"type"`
		Total decimal.Decimal `db:"total"`
	}{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT type, SUM(amount) AS total
		FROM transactions
		WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?
		GROUP BY type`,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return sum, fmt.Errorf("monthly summary: %w", err)
	}

	for _, r := range rows {
		switch r.Type {
		case core.Income:
			sum.Income = r.Total
		case core.Expense:
			sum.Expense = r.Total
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)
	return sum, nil
}

// CategoryBreakdown groups by (category, type) within the given month
// and orders descending by total.
func (s *LedgerStore) CategoryBreakdown(ctx context.Context, year, month int) ([]core.CategoryTotal, error) {
	year, month = yearMonth(year, month)

	var totals []core.CategoryTotal
	err := s.db.SelectContext(ctx, &totals, `
		SELECT category, type, SUM(amount) AS total
		FROM transactions
		WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?
		GROUP BY category, type
		ORDER BY total DESC`,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	return totals, nil
}

// MonthlySeries aggregates per-month income and expense totals over
// the trailing pastMonths window, ending at the current month. Months
// without transactions appear with zero totals so the series stays
// contiguous.
func (s *LedgerStore) MonthlySeries(ctx context.Context, pastMonths int) ([]core.MonthPoint, error) {
	if pastMonths < 1 {
		pastMonths = 1
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(pastMonths - 1), 0)

	rows := []struct {
		Month string          `db:"ym"`
		Type  core.TxType     `db:"type"`
		Total decimal.Decimal `db:"total"`
	}{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT strftime('%Y-%m', date) AS ym, type, SUM(amount) AS total
		FROM transactions
		WHERE date >= ?
		GROUP BY ym, type
		ORDER BY ym`,
		first.Format(core.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}

	points := make([]core.MonthPoint, pastMonths)
	index := make(map[string]int, pastMonths)
	for i := range points {
		label := first.AddDate(0, i, 0).Format("2006-01")
		points[i] = core.MonthPoint{Label: label}
		index[label] = i
	}

	for _, r := range rows {
		i, ok := index[r.Month]
		if !ok {
			continue
		}
		switch r.Type {
		case core.Income:
			points[i].Income = r.Total
		case core.Expense:
			points[i].Expense = r.Total
		}
	}

	return points, nil
}
