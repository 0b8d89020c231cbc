package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Category is a transaction category name. Valid members depend on the
	// transaction type; see ExpenseCategories and IncomeCategories.
	Category string

	// Date is a calendar date with day granularity. The time-of-day and
	// timezone of the wrapped time are not meaningful: dates are parsed
	// from their YYYY-MM-DD form and compared by civil year/month/day.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
	}
)

var ExpenseCategories = []Category{
	"Food",
	"Transport",
	"Housing",
	"Utilities",
	"Entertainment",
	"Health",
	"Shopping",
	"Other",
}

var IncomeCategories = []Category{
	"Salary",
	"Freelance",
	"Investment",
	"Gifts",
	"Other",
}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Categories returns the closed category enumeration for this type.
func (t TransactionType) Categories() []Category {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	}
	return nil
}

// ValidCategory reports whether c belongs to the enumeration for typ.
// Membership is exact: no case folding, no trimming.
func ValidCategory(typ TransactionType, c Category) bool {
	for _, v := range typ.Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// NewDate creates a Date from civil year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Inputs carrying a time component
// (RFC 3339 timestamps) are accepted: only the leading date part is read,
// so the stored string's own calendar date always wins over any timezone
// conversion.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether d and other fall in the same calendar month
// of the same year.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.ID) == "" {
		return errors.New("empty transaction id")
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}
	if !ValidCategory(tx.Type, tx.Category) {
		return fmt.Errorf("%w: %q is not a valid %s category", ErrInvalidCategory, tx.Category, tx.Type)
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
