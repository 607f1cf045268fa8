package handlers_test

import (
	"context"
	"time"

	istore "github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockExpenseStore is a testify mock for store.ExpenseStore.
type MockExpenseStore struct {
	mock.Mock
}

func (m *MockExpenseStore) CreateExpense(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (*types.Expense, error) {
	args := m.Called(ctx, expense, shares)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) MarkSettled(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseStore) MarkSharePaid(ctx context.Context, expenseID, debtorID string, paidAt time.Time) error {
	args := m.Called(ctx, expenseID, debtorID, paidAt)
	return args.Error(0)
}

func (m *MockExpenseStore) OutstandingTotals(ctx context.Context, userID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockExpenseStore) CategoryBreakdown(ctx context.Context, userID string, since time.Time) ([]types.CategorySpend, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CategorySpend), args.Error(1)
}

func (m *MockExpenseStore) SpendingTrend(ctx context.Context, userID string, interval istore.TrendInterval, since time.Time) ([]types.TrendBucket, error) {
	args := m.Called(ctx, userID, interval, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TrendBucket), args.Error(1)
}

func (m *MockExpenseStore) VisibleCountAndTotal(ctx context.Context, userID string, since time.Time) (int, decimal.Decimal, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockExpenseStore) RecentExpenses(ctx context.Context, userID string, limit int) ([]types.Expense, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Expense), args.Error(1)
}

func (m *MockExpenseStore) SharesSpentSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
