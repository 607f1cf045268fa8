package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpend is one row of a per-category aggregation.
type CategorySpend struct {
	Category    Category        `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int             `json:"count"`
}

// TrendBucket is one calendar bucket (month or week) of spending.
// Buckets with no activity are absent from the series, not zero-filled.
type TrendBucket struct {
	PeriodStart time.Time       `json:"periodStart"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int             `json:"count"`
}

// AnalyticsReport aggregates an individual user's visible expense history.
type AnalyticsReport struct {
	CategoryBreakdown []CategorySpend `json:"categoryBreakdown"`
	MonthlySpending   []TrendBucket   `json:"monthlySpending"`
	WeeklySpending    []TrendBucket   `json:"weeklySpending"`
	TotalExpenses     int             `json:"totalExpenses"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	RecentExpenses    []Expense       `json:"recentExpenses"`
}

// SuggestionType labels the severity of a budget suggestion.
type SuggestionType string

const (
	SuggestionWarning  SuggestionType = "warning"
	SuggestionTip      SuggestionType = "tip"
	SuggestionPositive SuggestionType = "positive"
)

// BudgetSuggestion is one rule-engine output.
type BudgetSuggestion struct {
	Type     SuggestionType `json:"type"`
	Message  string         `json:"message"`
	Category string         `json:"category"`
}

// BudgetReport is the budget-suggestion endpoint payload.
type BudgetReport struct {
	MonthlyAverage    decimal.Decimal    `json:"monthlyAverage"`
	Suggestions       []BudgetSuggestion `json:"suggestions"`
	CategoryBreakdown []CategorySpend    `json:"categoryBreakdown"`
}
