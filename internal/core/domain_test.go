package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"2025-03-14", "2025-03-14", true},
		{" 2025-03-14 ", "2025-03-14", true},
		{"2025-03-14T23:45:00.000Z", "2025-03-14", true}, // time part ignored
		{"2025-03-14T00:30:00+05:30", "2025-03-14", true},
		{"14/03/2025", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || d.String() != tc.out {
				t.Fatalf("%q: expected %s, got %s (err=%v)", tc.in, tc.out, d, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestDateSameMonth(t *testing.T) {
	ref := NewDate(2025, 6, 15)
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2025, 6, 1), true},
		{NewDate(2025, 6, 30), true},
		{NewDate(2025, 5, 31), false},
		{NewDate(2025, 7, 1), false},
		{NewDate(2024, 6, 15), false}, // same month, different year
	}
	for i, tc := range cases {
		if got := tc.d.SameMonth(ref); got != tc.want {
			t.Fatalf("case %d: SameMonth(%s, %s) = %v", i, tc.d, ref, got)
		}
	}
}

func TestValidCategory(t *testing.T) {
	cases := []struct {
		typ  TransactionType
		cat  Category
		want bool
	}{
		{Expense, "Food", true},
		{Expense, "Other", true},
		{Expense, "Salary", false}, // income category on an expense
		{Income, "Salary", true},
		{Income, "Food", false},
		{Expense, "food", false},   // membership is case-sensitive
		{Expense, "Snacks", false}, // not in the enumeration
		{"transfer", "Food", false},
	}
	for i, tc := range cases {
		if got := ValidCategory(tc.typ, tc.cat); got != tc.want {
			t.Fatalf("case %d: ValidCategory(%s, %s) = %v", i, tc.typ, tc.cat, got)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "tx-1",
		Date:        NewDate(2025, 1, 10),
		Description: "groceries",
		Amount:      Money{Cents: 1250},
		Type:        Expense,
		Category:    "Food",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Empty description is allowed.
	noDesc := good
	noDesc.Description = ""
	if err := noDesc.Validate(); err != nil {
		t.Fatalf("empty description should be valid, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: Expense, Category: "Food"},
		{ID: "a", Date: Date{Time: time.Time{}}, Amount: Money{Cents: 1}, Type: Expense, Category: "Food"},
		{ID: "a", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 0}, Type: Expense, Category: "Food"},
		{ID: "a", Date: NewDate(2025, 1, 1), Amount: Money{Cents: -5}, Type: Expense, Category: "Food"},
		{ID: "a", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: "refund", Category: "Food"},
		{ID: "a", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Type: Expense, Category: "Salary"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx := Transaction{
		ID:          "b3f1",
		Date:        NewDate(2025, 8, 2),
		Description: "bus ticket",
		Amount:      Money{Cents: 275},
		Type:        Expense,
		Category:    "Transport",
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Transaction
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != tx {
		t.Fatalf("round trip mismatch: %+v != %+v", got, tx)
	}
}
