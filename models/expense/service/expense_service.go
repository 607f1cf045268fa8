package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/internal/split"
	istore "github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/logger"
	"github.com/quickbill-app/quickbill-backend/types"
)

// ExpenseMetrics tracks the write-side activity of the expense service.
type ExpenseMetrics struct {
	createdCount prometheus.Counter
	settledCount prometheus.Counter
	paidCount    prometheus.Counter
}

// ExpenseService handles expense creation, lookup, and lifecycle updates.
type ExpenseService struct {
	store   istore.ExpenseStore
	metrics *ExpenseMetrics
}

// NewExpenseService creates an expense service registered against the default
// Prometheus registry.
func NewExpenseService(store istore.ExpenseStore) *ExpenseService {
	return NewExpenseServiceWithRegistry(store, prometheus.DefaultRegisterer)
}

// NewExpenseServiceWithRegistry creates an expense service with metrics
// registered on the given registry. Tests pass their own registry to avoid
// duplicate registration across cases.
func NewExpenseServiceWithRegistry(store istore.ExpenseStore, reg prometheus.Registerer) *ExpenseService {
	metrics := &ExpenseMetrics{
		createdCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quickbill_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		settledCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quickbill_expenses_settled_total",
			Help: "Total number of expenses marked settled",
		}),
		paidCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quickbill_shares_paid_total",
			Help: "Total number of shares marked paid",
		}),
	}

	reg.MustRegister(metrics.createdCount)
	reg.MustRegister(metrics.settledCount)
	reg.MustRegister(metrics.paidCount)

	return &ExpenseService{
		store:   store,
		metrics: metrics,
	}
}

// CreateExpense validates the request, computes the split, and persists the
// expense with its shares and ledger postings in one transaction.
func (s *ExpenseService) CreateExpense(ctx context.Context, creatorID string, req types.CreateExpenseRequest) (*types.Expense, error) {
	log := logger.GetLogger()

	policy := req.SplitPolicy
	if policy == "" {
		policy = types.SplitPolicyEqual
	}
	if !policy.Valid() {
		return nil, apperrors.ValidationFailed("Unknown split policy", string(policy))
	}

	category := req.Category
	if category == "" {
		category = types.CategoryOther
	}
	if !category.Valid() {
		return nil, apperrors.ValidationFailed("Unknown expense category", string(category))
	}

	for _, id := range req.ParticipantIDs {
		if id == creatorID {
			return nil, apperrors.ValidationFailed(
				"Creator may not be listed as a participant",
				"the creator's share is implicit",
			)
		}
	}

	allocation, err := split.Allocate(req.TotalAmount, req.ParticipantIDs, policy, req.CustomAmounts)
	if err != nil {
		return nil, err
	}

	expense := &types.Expense{
		Title:       req.Title,
		TotalAmount: req.TotalAmount,
		CreatorID:   creatorID,
		SplitPolicy: policy,
		Category:    category,
		Description: req.Description,
		Notes:       req.Notes,
	}

	shares := make([]types.ExpenseShare, 0, len(req.ParticipantIDs))
	for _, id := range req.ParticipantIDs {
		shares = append(shares, types.ExpenseShare{
			DebtorID: id,
			Amount:   allocation.Shares[id],
		})
	}

	created, err := s.store.CreateExpense(ctx, expense, shares)
	if err != nil {
		if errors.Is(err, istore.ErrDuplicateShare) {
			return nil, apperrors.ValidationFailed("Duplicate participant", "each participant may hold only one share")
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.metrics.createdCount.Inc()
	log.Infow("Expense created",
		"expenseID", created.ID,
		"creatorID", creatorID,
		"total", created.TotalAmount,
		"shares", len(created.Shares),
	)

	return created, nil
}

// GetExpense returns the expense if the requesting user created it or holds a
// share in it.
func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*types.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if !isVisible(expense, userID) {
		return nil, apperrors.Forbidden("Expense is not visible to this user", expenseID)
	}

	return expense, nil
}

// ListExpenses returns every expense the user created or shares in, newest
// first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]*types.Expense, error) {
	expenses, err := s.store.ListUserExpenses(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return expenses, nil
}

// MarkSettled flips the expense's settled flag. Only the creator may settle.
// Shares and ledger entries are left untouched.
func (s *ExpenseService) MarkSettled(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return apperrors.NotFound("Expense", expenseID)
		}
		return apperrors.NewDatabaseError(err)
	}
	if expense.CreatorID != userID {
		return apperrors.Forbidden("Only the creator may settle an expense", expenseID)
	}

	if err := s.store.MarkSettled(ctx, expenseID); err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return apperrors.NotFound("Expense", expenseID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.metrics.settledCount.Inc()
	logger.GetLogger().Infow("Expense settled", "expenseID", expenseID, "userID", userID)
	return nil
}

// MarkSharePaid records payment on a share. The debtor may mark their own
// share, and the creator may mark any share. Repeated calls simply refresh
// the payment timestamp.
func (s *ExpenseService) MarkSharePaid(ctx context.Context, userID, expenseID, debtorID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return apperrors.NotFound("Expense", expenseID)
		}
		return apperrors.NewDatabaseError(err)
	}
	if userID != debtorID && userID != expense.CreatorID {
		return apperrors.Forbidden("Only the debtor or the creator may mark a share paid", expenseID)
	}

	if err := s.store.MarkSharePaid(ctx, expenseID, debtorID, time.Now()); err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return apperrors.NotFound("Expense share", debtorID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.metrics.paidCount.Inc()
	logger.GetLogger().Infow("Share marked paid",
		"expenseID", expenseID, "debtorID", debtorID, "markedBy", userID)
	return nil
}

func isVisible(expense *types.Expense, userID string) bool {
	if expense.CreatorID == userID {
		return true
	}
	for _, share := range expense.Shares {
		if share.DebtorID == userID {
			return true
		}
	}
	return false
}
