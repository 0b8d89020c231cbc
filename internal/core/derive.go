package core

import "sort"

// This file is the derivation layer: pure functions that turn the raw
// transaction list into everything the views display. None of them
// mutate their input, read the clock, or return errors — an empty
// collection yields zero totals and empty slices.

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Name   Category `json:"category"`
	Amount Money    `json:"total"`
}

// MonthBreakdown holds the per-type totals and lists for one month's
// transactions. Lists preserve the relative order of the input.
type MonthBreakdown struct {
	IncomeTotal         Money
	ExpenseTotal        Money
	IncomeTransactions  []Transaction
	ExpenseTransactions []Transaction
}

// Balance returns income minus expenses. It may be negative.
func (b MonthBreakdown) Balance() Money {
	return Money{Cents: b.IncomeTotal.Cents - b.ExpenseTotal.Cents}
}

// BudgetStatus describes progress against the monthly spending ceiling.
type BudgetStatus struct {
	Budget      Money   `json:"budget"`
	Spent       Money   `json:"spent"`
	Remaining   Money   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

// SortByDateDesc returns a copy of txs ordered by date, most recent
// first. The sort is stable: entries sharing a date keep their relative
// input order.
func SortByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date.Time)
	})
	return out
}

// FilterMonth retains transactions whose date falls in the same
// calendar month and year as ref. The comparison reads the stored
// date's own year/month; no timezone conversion is involved.
func FilterMonth(txs []Transaction, ref Date) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.SameMonth(ref) {
			out = append(out, tx)
		}
	}
	return out
}

// Partition splits txs by type in a single pass, accumulating cent
// totals per side.
func Partition(txs []Transaction) MonthBreakdown {
	b := MonthBreakdown{
		IncomeTransactions:  []Transaction{},
		ExpenseTransactions: []Transaction{},
	}
	for _, tx := range txs {
		if tx.Type == Income {
			b.IncomeTotal.Cents += tx.Amount.Cents
			b.IncomeTransactions = append(b.IncomeTransactions, tx)
		} else {
			b.ExpenseTotal.Cents += tx.Amount.Cents
			b.ExpenseTransactions = append(b.ExpenseTransactions, tx)
		}
	}
	return b
}

// AggregateByCategory groups txs by category and sums amounts per
// group. Output order is first-seen order of each category in the
// input; it governs chart legend and slice ordering downstream.
func AggregateByCategory(txs []Transaction) []CategoryAmount {
	index := make(map[Category]int, len(txs))
	out := []CategoryAmount{}
	for _, tx := range txs {
		if i, ok := index[tx.Category]; ok {
			out[i].Amount.Cents += tx.Amount.Cents
			continue
		}
		index[tx.Category] = len(out)
		out = append(out, CategoryAmount{Name: tx.Category, Amount: tx.Amount})
	}
	return out
}

// Recent returns the first n entries of an already-sorted sequence.
// It is not month-filtered: recent activity spans the full history.
func Recent(sorted []Transaction, n int) []Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Transaction, n)
	copy(out, sorted[:n])
	return out
}

// NewBudgetStatus computes progress against the budget. A zero budget
// reports zero percent used regardless of spend, while the remaining
// amount stays budget-minus-spent and may go negative.
func NewBudgetStatus(budget, spent Money) BudgetStatus {
	st := BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: Money{Cents: budget.Cents - spent.Cents},
	}
	if budget.Cents > 0 {
		st.PercentUsed = float64(spent.Cents) / float64(budget.Cents) * 100
	}
	return st
}
