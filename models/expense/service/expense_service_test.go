package service_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	istore "github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/logger"
	"github.com/quickbill-app/quickbill-backend/models/expense/service"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func newTestService(store istore.ExpenseStore) *service.ExpenseService {
	return service.NewExpenseServiceWithRegistry(store, prometheus.NewRegistry())
}

func equalRequest() types.CreateExpenseRequest {
	return types.CreateExpenseRequest{
		Title:          "Groceries",
		TotalAmount:    decimal.RequireFromString("90.00"),
		SplitPolicy:    types.SplitPolicyEqual,
		Category:       types.CategoryFood,
		ParticipantIDs: []string{"debtor-1", "debtor-2"},
	}
}

func TestExpenseService_CreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("equal split builds one share per participant", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("CreateExpense", ctx, mock.AnythingOfType("*types.Expense"), mock.AnythingOfType("[]types.ExpenseShare")).
			Run(func(args mock.Arguments) {
				expense := args.Get(1).(*types.Expense)
				shares := args.Get(2).([]types.ExpenseShare)
				assert.Equal(t, "creator-1", expense.CreatorID)
				require.Len(t, shares, 2)
				for _, share := range shares {
					assert.True(t, share.Amount.Equal(decimal.RequireFromString("30.00")))
				}
			}).
			Return(&types.Expense{ID: "exp-1"}, nil)

		created, err := svc.CreateExpense(ctx, "creator-1", equalRequest())
		require.NoError(t, err)
		assert.Equal(t, "exp-1", created.ID)
		mockStore.AssertExpectations(t)
	})

	t.Run("defaults apply when policy and category are omitted", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		req := equalRequest()
		req.SplitPolicy = ""
		req.Category = ""

		mockStore.On("CreateExpense", ctx, mock.AnythingOfType("*types.Expense"), mock.Anything).
			Run(func(args mock.Arguments) {
				expense := args.Get(1).(*types.Expense)
				assert.Equal(t, types.SplitPolicyEqual, expense.SplitPolicy)
				assert.Equal(t, types.CategoryOther, expense.Category)
			}).
			Return(&types.Expense{ID: "exp-2"}, nil)

		_, err := svc.CreateExpense(ctx, "creator-1", req)
		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("custom split preserves participant order", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		req := equalRequest()
		req.SplitPolicy = types.SplitPolicyCustom
		req.CustomAmounts = []decimal.Decimal{
			decimal.RequireFromString("40.00"),
			decimal.RequireFromString("35.00"),
		}

		mockStore.On("CreateExpense", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				shares := args.Get(2).([]types.ExpenseShare)
				require.Len(t, shares, 2)
				assert.Equal(t, "debtor-1", shares[0].DebtorID)
				assert.True(t, shares[0].Amount.Equal(decimal.RequireFromString("40.00")))
				assert.Equal(t, "debtor-2", shares[1].DebtorID)
				assert.True(t, shares[1].Amount.Equal(decimal.RequireFromString("35.00")))
			}).
			Return(&types.Expense{ID: "exp-3"}, nil)

		_, err := svc.CreateExpense(ctx, "creator-1", req)
		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("creator listed as participant is rejected", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		req := equalRequest()
		req.ParticipantIDs = []string{"creator-1", "debtor-1"}

		_, err := svc.CreateExpense(ctx, "creator-1", req)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
		mockStore.AssertNotCalled(t, "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("custom amount count mismatch carries the split code", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		req := equalRequest()
		req.SplitPolicy = types.SplitPolicyCustom
		req.CustomAmounts = []decimal.Decimal{decimal.RequireFromString("40.00")}

		_, err := svc.CreateExpense(ctx, "creator-1", req)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeSplitMismatch, appErr.Code)
	})

	t.Run("invalid category is rejected", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		req := equalRequest()
		req.Category = types.Category("GAMBLING")

		_, err := svc.CreateExpense(ctx, "creator-1", req)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})

	t.Run("duplicate share from the store becomes a validation error", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("CreateExpense", ctx, mock.Anything, mock.Anything).
			Return(nil, istore.ErrDuplicateShare)

		_, err := svc.CreateExpense(ctx, "creator-1", equalRequest())
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})
}

func TestExpenseService_GetExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("share holder may read", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").Return(&types.Expense{
			ID:        "exp-1",
			CreatorID: "creator-1",
			Shares:    []types.ExpenseShare{{DebtorID: "debtor-1"}},
		}, nil)

		expense, err := svc.GetExpense(ctx, "debtor-1", "exp-1")
		require.NoError(t, err)
		assert.Equal(t, "exp-1", expense.ID)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").Return(&types.Expense{
			ID:        "exp-1",
			CreatorID: "creator-1",
			Shares:    []types.ExpenseShare{{DebtorID: "debtor-1"}},
		}, nil)

		_, err := svc.GetExpense(ctx, "stranger", "exp-1")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.AuthorizationError, appErr.Type)
	})

	t.Run("missing expense maps to not found", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "missing").Return(nil, istore.ErrNotFound)

		_, err := svc.GetExpense(ctx, "debtor-1", "missing")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})
}

func TestExpenseService_MarkSettled(t *testing.T) {
	ctx := context.Background()

	t.Run("creator settles", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").
			Return(&types.Expense{ID: "exp-1", CreatorID: "creator-1"}, nil)
		mockStore.On("MarkSettled", ctx, "exp-1").Return(nil)

		require.NoError(t, svc.MarkSettled(ctx, "creator-1", "exp-1"))
		mockStore.AssertExpectations(t)
	})

	t.Run("non-creator is forbidden", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").
			Return(&types.Expense{ID: "exp-1", CreatorID: "creator-1",
				Shares: []types.ExpenseShare{{DebtorID: "debtor-1"}}}, nil)

		err := svc.MarkSettled(ctx, "debtor-1", "exp-1")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.AuthorizationError, appErr.Type)
		mockStore.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything)
	})
}

func TestExpenseService_MarkSharePaid(t *testing.T) {
	ctx := context.Background()
	expense := &types.Expense{
		ID:        "exp-1",
		CreatorID: "creator-1",
		Shares:    []types.ExpenseShare{{DebtorID: "debtor-1"}},
	}

	t.Run("debtor marks own share", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").Return(expense, nil)
		mockStore.On("MarkSharePaid", ctx, "exp-1", "debtor-1", mock.AnythingOfType("time.Time")).Return(nil)

		require.NoError(t, svc.MarkSharePaid(ctx, "debtor-1", "exp-1", "debtor-1"))
		mockStore.AssertExpectations(t)
	})

	t.Run("creator marks any share", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").Return(expense, nil)
		mockStore.On("MarkSharePaid", ctx, "exp-1", "debtor-1", mock.AnythingOfType("time.Time")).Return(nil)

		require.NoError(t, svc.MarkSharePaid(ctx, "creator-1", "exp-1", "debtor-1"))
	})

	t.Run("another debtor may not mark someone else's share", func(t *testing.T) {
		mockStore := new(MockExpenseStore)
		svc := newTestService(mockStore)

		mockStore.On("GetExpense", ctx, "exp-1").Return(expense, nil)

		err := svc.MarkSharePaid(ctx, "debtor-2", "exp-1", "debtor-1")
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.AuthorizationError, appErr.Type)
	})
}
