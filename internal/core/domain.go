package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// DateLayout is the calendar date format used everywhere: storage,
// CSV export, CLI flags and prompts.
const DateLayout = "2006-01-02"

type (
	TxType string

	// Transaction is one recorded income or expense event. Amount is
	// always non-negative; the sign is implied by Type.
	Transaction struct {
		ID       int64           `db:"id"`
		Date     string          `db:"date"`
		Type     TxType          `db:"type"`
		Amount   decimal.Decimal `db:"amount"`
		Category string          `db:"category"`
		Note     string          `db:"note"`
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidType     = errors.New("invalid type, expected income or expense")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNotFound        = errors.New("transaction not found")
	ErrNothingToUpdate = errors.New("nothing to update")
)

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

// ValidateDate checks the ISO date format.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateAmount rejects negative amounts. Zero is allowed.
func ValidateAmount(a decimal.Decimal) error {
	if a.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
