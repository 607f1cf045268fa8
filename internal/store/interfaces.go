package store

import (
	"context"
	"time"

	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

// TrendInterval selects the calendar bucketing for spending trends.
type TrendInterval string

const (
	TrendMonthly TrendInterval = "month"
	TrendWeekly  TrendInterval = "week"
)

// ExpenseStore handles expense and share persistence plus the read-side
// aggregations computed over them. Visibility of an expense to a user means
// the user created it or holds a share in it.
type ExpenseStore interface {
	// CreateExpense persists the expense, all shares, and one ledger posting
	// per share as a single atomic unit. Either every record exists afterwards
	// or none do.
	CreateExpense(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (*types.Expense, error)

	GetExpense(ctx context.Context, id string) (*types.Expense, error)
	ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error)

	// MarkSettled flips the settled flag. It never touches shares or ledger
	// entries; settlement is a label on the expense, not a balance adjustment.
	MarkSettled(ctx context.Context, expenseID string) error

	// MarkSharePaid records payment on the (expense, debtor) share. The
	// ledger is deliberately not decremented.
	MarkSharePaid(ctx context.Context, expenseID, debtorID string, paidAt time.Time) error

	// OutstandingTotals sums unpaid shares of unsettled expenses: what the
	// user owes as debtor and what the user is owed as creator.
	OutstandingTotals(ctx context.Context, userID string) (owes, owed decimal.Decimal, err error)

	// CategoryBreakdown aggregates visible expenses per category since the
	// given time (zero time means the whole history), sorted descending by
	// total amount.
	CategoryBreakdown(ctx context.Context, userID string, since time.Time) ([]types.CategorySpend, error)

	// SpendingTrend buckets visible expenses by calendar month or week.
	// Buckets without activity are absent from the result.
	SpendingTrend(ctx context.Context, userID string, interval TrendInterval, since time.Time) ([]types.TrendBucket, error)

	// VisibleCountAndTotal returns the count and summed total of all
	// expenses visible to the user since the given time (zero time means
	// the whole history).
	VisibleCountAndTotal(ctx context.Context, userID string, since time.Time) (int, decimal.Decimal, error)

	// RecentExpenses returns the most recently created visible expenses.
	RecentExpenses(ctx context.Context, userID string, limit int) ([]types.Expense, error)

	// SharesSpentSince sums share amounts involving the user (as debtor, or
	// as creator of the expense) created since the given time.
	SharesSpentSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error)
}

// LedgerStore maintains the materialized pairwise balance accumulator.
// Entries are created on first posting and never deleted; a zero amount is a
// terminal value, not a deletion trigger.
type LedgerStore interface {
	// Post atomically adds delta to the (debtor, creditor) entry, creating
	// it if absent. Safe under concurrent postings to the same pair.
	Post(ctx context.Context, debtorID, creditorID string, delta decimal.Decimal) error

	// GetEntry returns the entry for the ordered pair, or store.ErrNotFound
	// if no posting has ever touched it.
	GetEntry(ctx context.Context, debtorID, creditorID string) (*types.BalanceEntry, error)

	// ListEntriesForUser returns every entry in which the user appears as
	// debtor or creditor.
	ListEntriesForUser(ctx context.Context, userID string) ([]types.BalanceEntry, error)
}
