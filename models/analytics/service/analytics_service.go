package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	istore "github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

const (
	monthlyTrendWindow = 180 * 24 * time.Hour
	weeklyTrendWindow  = 8 * 7 * 24 * time.Hour
	suggestionWindow   = 90 * 24 * time.Hour
	recentExpenseLimit = 10
)

// highSpendThreshold triggers the budget warning when the monthly average
// exceeds it.
var highSpendThreshold = decimal.NewFromInt(1000)

// categoryShareThreshold triggers a per-category tip when one category
// carries more than this fraction of the monthly average.
var categoryShareThreshold = decimal.RequireFromString("0.3")

// AnalyticsService computes spending reports and budget suggestions over a
// user's visible expenses.
type AnalyticsService struct {
	expenses istore.ExpenseStore
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(expenses istore.ExpenseStore) *AnalyticsService {
	return &AnalyticsService{expenses: expenses}
}

// Report assembles the full analytics payload: all-history category
// breakdown, six months of monthly and eight weeks of weekly trends,
// lifetime totals, and the ten most recent expenses.
func (s *AnalyticsService) Report(ctx context.Context, userID string) (*types.AnalyticsReport, error) {
	now := time.Now()
	var allHistory time.Time

	breakdown, err := s.expenses.CategoryBreakdown(ctx, userID, allHistory)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	monthly, err := s.expenses.SpendingTrend(ctx, userID, istore.TrendMonthly, now.Add(-monthlyTrendWindow))
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	weekly, err := s.expenses.SpendingTrend(ctx, userID, istore.TrendWeekly, now.Add(-weeklyTrendWindow))
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	count, total, err := s.expenses.VisibleCountAndTotal(ctx, userID, allHistory)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	recent, err := s.expenses.RecentExpenses(ctx, userID, recentExpenseLimit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return &types.AnalyticsReport{
		CategoryBreakdown: breakdown,
		MonthlySpending:   monthly,
		WeeklySpending:    weekly,
		TotalExpenses:     count,
		TotalAmount:       total,
		RecentExpenses:    recent,
	}, nil
}

// BudgetSuggestions runs the rule engine over the last 90 days of visible
// spending. The monthly average is the 90-day total divided by three.
func (s *AnalyticsService) BudgetSuggestions(ctx context.Context, userID string) (*types.BudgetReport, error) {
	since := time.Now().Add(-suggestionWindow)

	_, windowTotal, err := s.expenses.VisibleCountAndTotal(ctx, userID, since)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	monthlyAvg := windowTotal.Div(decimal.NewFromInt(3))

	breakdown, err := s.expenses.CategoryBreakdown(ctx, userID, since)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	suggestions := buildSuggestions(monthlyAvg, breakdown)

	return &types.BudgetReport{
		MonthlyAverage:    monthlyAvg,
		Suggestions:       suggestions,
		CategoryBreakdown: breakdown,
	}, nil
}

// buildSuggestions applies the three rules in order: high overall spending,
// category concentration, and a positive fallback when nothing fired.
func buildSuggestions(monthlyAvg decimal.Decimal, breakdown []types.CategorySpend) []types.BudgetSuggestion {
	var suggestions []types.BudgetSuggestion

	if monthlyAvg.GreaterThan(highSpendThreshold) {
		suggestions = append(suggestions, types.BudgetSuggestion{
			Type:     types.SuggestionWarning,
			Message:  fmt.Sprintf("Your monthly spending is $%s. Consider setting a budget limit.", monthlyAvg.StringFixed(2)),
			Category: "general",
		})
	}

	if monthlyAvg.IsPositive() {
		threshold := monthlyAvg.Mul(categoryShareThreshold)
		for _, category := range breakdown {
			if category.TotalAmount.GreaterThan(threshold) {
				percentage := category.TotalAmount.Div(monthlyAvg).Mul(decimal.NewFromInt(100))
				suggestions = append(suggestions, types.BudgetSuggestion{
					Type: types.SuggestionTip,
					Message: fmt.Sprintf("Consider reducing %s expenses. It's %s%% of your spending.",
						category.Category, percentage.StringFixed(1)),
					Category: string(category.Category),
				})
			}
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, types.BudgetSuggestion{
			Type:     types.SuggestionPositive,
			Message:  "Great job! Your spending looks well-balanced.",
			Category: "general",
		})
	}

	return suggestions
}
