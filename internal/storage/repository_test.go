package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()
	store, err := NewLedgerStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustAdd(t *testing.T, store *LedgerStore, date string, ty core.TxType, amount, category, note string) int64 {
	t.Helper()
	id, err := store.Add(context.Background(), core.Transaction{
		Date:     date,
		Type:     ty,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Note:     note,
	})
	if err != nil {
		t.Fatalf("add %s %s: %v", ty, amount, err)
	}
	return id
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	store := newTestStore(t)

	first := mustAdd(t, store, "2024-01-05", core.Income, "1000", "salary", "")
	second := mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "groceries")
	if second <= first {
		t.Fatalf("ids not increasing: %d then %d", first, second)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"bad type", core.Transaction{Date: "2024-01-05", Type: "transfer", Amount: decimal.NewFromInt(1), Category: "c"}, core.ErrInvalidType},
		{"bad date", core.Transaction{Date: "2024/01/05", Type: core.Income, Amount: decimal.NewFromInt(1), Category: "c"}, core.ErrInvalidDate},
		{"negative amount", core.Transaction{Date: "2024-01-05", Type: core.Income, Amount: decimal.NewFromInt(-3), Category: "c"}, core.ErrNegativeAmount},
		{"empty category", core.Transaction{Date: "2024-01-05", Type: core.Income, Amount: decimal.NewFromInt(3), Category: ""}, core.ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Add(ctx, tc.tx); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	txs, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("invalid adds must not persist, found %d rows", len(txs))
	}
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Same date twice so the id tiebreaker is exercised.
	a := mustAdd(t, store, "2024-01-10", core.Expense, "10", "food", "")
	b := mustAdd(t, store, "2024-01-10", core.Expense, "20", "food", "")
	c := mustAdd(t, store, "2024-02-01", core.Income, "30", "salary", "")

	txs, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	gotIDs := []int64{}
	for _, tx := range txs {
		gotIDs = append(gotIDs, tx.ID)
	}
	wantIDs := []int64{c, b, a}
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(gotIDs), len(wantIDs))
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, gotIDs, wantIDs)
		}
	}
}

func TestListFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, "2024-01-05", core.Income, "1000", "salary", "")
	mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "")
	mustAdd(t, store, "2024-02-10", core.Expense, "50", "food", "")
	mustAdd(t, store, "2024-02-15", core.Expense, "75", "transport", "")

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"date range inclusive", Filter{Start: "2024-01-10", End: "2024-02-10"}, 2},
		{"category", Filter{Category: "food"}, 2},
		{"type", Filter{Type: core.Expense}, 3},
		{"combined", Filter{Type: core.Expense, Category: "food", Start: "2024-02-01"}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"no match", Filter{Category: "Food"}, 0}, // case-sensitive
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txs, err := store.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(txs) != tc.want {
				t.Fatalf("got %d rows, want %d", len(txs), tc.want)
			}
		})
	}

	if _, err := store.List(ctx, Filter{Type: "transfer"}); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType for bad type filter, got %v", err)
	}
}

func TestGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustAdd(t, store, "2024-01-05", core.Income, "12.34", "salary", "bonus")

	tx, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tx.ID != id || tx.Date != "2024-01-05" || tx.Type != core.Income ||
		tx.Category != "salary" || tx.Note != "bonus" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("amount = %s, want 12.34", tx.Amount)
	}

	if _, err := store.Get(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSparseOnlyChangesSuppliedFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "groceries")

	amount := decimal.RequireFromString("250.50")
	if err := store.Update(ctx, id, UpdateFields{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}

	tx, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !tx.Amount.Equal(amount) {
		t.Fatalf("amount = %s, want 250.50", tx.Amount)
	}
	if tx.Date != "2024-01-10" || tx.Type != core.Expense ||
		tx.Category != "food" || tx.Note != "groceries" {
		t.Fatalf("other fields changed: %+v", tx)
	}
}

func TestUpdateValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "")

	badType := core.TxType("transfer")
	if err := store.Update(ctx, id, UpdateFields{Type: &badType}); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	badDate := "tomorrow"
	if err := store.Update(ctx, id, UpdateFields{Date: &badDate}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestUpdateNoFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "")
	if err := store.Update(ctx, id, UpdateFields{}); !errors.Is(err, core.ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	store := newTestStore(t)

	date := "2024-03-01"
	err := store.Update(context.Background(), 42, UpdateFields{Date: &date})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "")
	keep := mustAdd(t, store, "2024-01-11", core.Expense, "10", "food", "")

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again, and deleting an id that never existed, must
	// succeed and leave the table unchanged.
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := store.Delete(ctx, 9999); err != nil {
		t.Fatalf("delete of absent id: %v", err)
	}

	txs, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != keep {
		t.Fatalf("table changed unexpectedly: %+v", txs)
	}
}

func TestMonthlySummaryScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, "2024-01-05", core.Income, "1000", "salary", "")
	mustAdd(t, store, "2024-01-10", core.Expense, "200", "food", "")
	// Outside the month, must not count.
	mustAdd(t, store, "2024-02-01", core.Expense, "999", "food", "")

	sum, err := store.MonthlySummary(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Year != 2024 || sum.Month != 1 {
		t.Fatalf("wrong period: %d-%d", sum.Year, sum.Month)
	}
	if !sum.Income.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("income = %s, want 1000", sum.Income)
	}
	if !sum.Expense.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expense = %s, want 200", sum.Expense)
	}
	if !sum.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("balance = %s, want 800", sum.Balance)
	}
	if !sum.Balance.Equal(sum.Income.Sub(sum.Expense)) {
		t.Errorf("balance invariant broken: %s != %s - %s", sum.Balance, sum.Income, sum.Expense)
	}
}

func TestMonthlySummaryEmptyMonth(t *testing.T) {
	store := newTestStore(t)

	sum, err := store.MonthlySummary(context.Background(), 2019, 6)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.Income.IsZero() || !sum.Expense.IsZero() || !sum.Balance.IsZero() {
		t.Fatalf("empty month should be all zero, got %+v", sum)
	}
}

func TestMonthlySummaryDefaultsToCurrentMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	mustAdd(t, store, now.Format(core.DateLayout), core.Income, "5", "misc", "")

	sum, err := store.MonthlySummary(ctx, 0, 0)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Year != now.Year() || sum.Month != int(now.Month()) {
		t.Fatalf("defaulted to %d-%d, want %d-%d", sum.Year, sum.Month, now.Year(), now.Month())
	}
	if !sum.Income.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("income = %s, want 5", sum.Income)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustAdd(t, store, "2024-01-05", core.Income, "1000", "salary", "")
	mustAdd(t, store, "2024-01-10", core.Expense, "120", "food", "")
	mustAdd(t, store, "2024-01-12", core.Expense, "80", "food", "")
	mustAdd(t, store, "2024-01-15", core.Expense, "300", "rent", "")

	totals, err := store.CategoryBreakdown(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("got %d groups, want 3", len(totals))
	}
	// Ordered descending by total: salary 1000, rent 300, food 200.
	if totals[0].Category != "salary" || totals[0].Type != core.Income ||
		!totals[0].Total.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("first group wrong: %+v", totals[0])
	}
	if totals[1].Category != "rent" || !totals[1].Total.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("second group wrong: %+v", totals[1])
	}
	if totals[2].Category != "food" || !totals[2].Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("third group wrong: %+v", totals[2])
	}
}

func TestMonthlySeriesFillsEmptyMonths(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	twoBack := thisMonth.AddDate(0, -2, 0)

	mustAdd(t, store, thisMonth.Format(core.DateLayout), core.Income, "100", "salary", "")
	mustAdd(t, store, twoBack.Format(core.DateLayout), core.Expense, "40", "food", "")

	points, err := store.MonthlySeries(ctx, 3)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	if points[0].Label != twoBack.Format("2006-01") {
		t.Fatalf("first label = %s, want %s", points[0].Label, twoBack.Format("2006-01"))
	}
	if !points[0].Expense.Equal(decimal.NewFromInt(40)) {
		t.Errorf("oldest month expense = %s, want 40", points[0].Expense)
	}
	// Middle month has no transactions, must still be present as zeros.
	if !points[1].Income.IsZero() || !points[1].Expense.IsZero() {
		t.Errorf("middle month not zero: %+v", points[1])
	}
	if !points[2].Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("current month income = %s, want 100", points[2].Income)
	}
}

func TestTypeConstraintBackstop(t *testing.T) {
	store := newTestStore(t)

	// Bypass Go-side validation to prove the CHECK constraint holds.
	_, err := store.db.Exec(`
		INSERT INTO transactions (date, type, amount, category, note)
		VALUES ('2024-01-05', 'transfer', 10, 'c', '')`)
	if err == nil {
		t.Fatal("expected CHECK constraint violation for invalid type")
	}
}
