package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	istore "github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

// BalanceService exposes the two balance views: the cumulative pairwise
// ledger and the derived outstanding totals.
type BalanceService struct {
	ledger   istore.LedgerStore
	expenses istore.ExpenseStore
}

// NewBalanceService creates a new balance service.
func NewBalanceService(ledger istore.LedgerStore, expenses istore.ExpenseStore) *BalanceService {
	return &BalanceService{
		ledger:   ledger,
		expenses: expenses,
	}
}

// Summary lists who the user owes and who owes the user from the ledger.
// Zero-amount entries are real rows but carry no information, so they are
// filtered out of the response.
func (s *BalanceService) Summary(ctx context.Context, userID string) (*types.BalanceSummary, error) {
	entries, err := s.ledger.ListEntriesForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	summary := &types.BalanceSummary{
		Owes:   []types.BalanceItem{},
		OwedBy: []types.BalanceItem{},
	}
	for _, entry := range entries {
		if entry.Amount.IsZero() {
			continue
		}
		switch userID {
		case entry.DebtorID:
			summary.Owes = append(summary.Owes, types.BalanceItem{
				UserID: entry.CreditorID,
				Amount: entry.Amount,
			})
		case entry.CreditorID:
			summary.OwedBy = append(summary.OwedBy, types.BalanceItem{
				UserID: entry.DebtorID,
				Amount: entry.Amount,
			})
		}
	}

	return summary, nil
}

// NetBalance computes what userID owes otherUserID net of the reverse
// direction. A negative result means the other user owes on balance.
// A missing entry counts as zero; both directions missing is still a
// valid zero answer.
func (s *BalanceService) NetBalance(ctx context.Context, userID, otherUserID string) (decimal.Decimal, error) {
	if userID == otherUserID {
		return decimal.Zero, apperrors.ValidationFailed("Cannot compute a balance against yourself", userID)
	}

	forward, err := s.directedAmount(ctx, userID, otherUserID)
	if err != nil {
		return decimal.Zero, err
	}
	reverse, err := s.directedAmount(ctx, otherUserID, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return forward.Sub(reverse), nil
}

// TotalBalance computes the user's currently outstanding position from
// unpaid shares of unsettled expenses, with rolling 7 and 30 day spending
// totals. The ledger is deliberately not consulted here.
func (s *BalanceService) TotalBalance(ctx context.Context, userID string) (*types.TotalBalance, error) {
	owes, owed, err := s.expenses.OutstandingTotals(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	now := time.Now()
	spentWeek, err := s.expenses.SharesSpentSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	spentMonth, err := s.expenses.SharesSpentSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return &types.TotalBalance{
		TotalOwes:      owes,
		TotalOwed:      owed,
		SpentLastWeek:  spentWeek,
		SpentLastMonth: spentMonth,
	}, nil
}

func (s *BalanceService) directedAmount(ctx context.Context, debtorID, creditorID string) (decimal.Decimal, error) {
	entry, err := s.ledger.GetEntry(ctx, debtorID, creditorID)
	if err != nil {
		if errors.Is(err, istore.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.NewDatabaseError(err)
	}
	return entry.Amount, nil
}
