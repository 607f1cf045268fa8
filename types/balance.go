package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEntry is the accumulated gross amount one user owes another,
// keyed by the ordered (debtor, creditor) pair. Entries are only ever
// mutated by the ledger's posting operation and are never deleted; a
// zero amount is a valid terminal value.
//
// Note: payments and settlements never decrement an entry. The ledger
// answers "gross lifetime flow"; TotalBalance answers "currently
// outstanding". The two views are intentionally distinct.
type BalanceEntry struct {
	DebtorID    string          `json:"debtorId"`
	CreditorID  string          `json:"creditorId"`
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// BalanceItem is one side of a user's balance summary.
type BalanceItem struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceSummary lists who the user owes and who owes the user,
// restricted to non-zero ledger entries.
type BalanceSummary struct {
	Owes   []BalanceItem `json:"owes"`
	OwedBy []BalanceItem `json:"owedBy"`
}

// TotalBalance is a derived, point-in-time view computed from unpaid
// shares of unsettled expenses, plus recent spending totals. It is not
// read from balance entries.
type TotalBalance struct {
	TotalOwes      decimal.Decimal `json:"totalOwes"`
	TotalOwed      decimal.Decimal `json:"totalOwed"`
	SpentLastWeek  decimal.Decimal `json:"spentLastWeek"`
	SpentLastMonth decimal.Decimal `json:"spentLastMonth"`
}
