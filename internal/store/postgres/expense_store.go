package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

// visibleExpenses restricts a query to expenses the user created or shares in.
const visibleExpenses = `(e.creator_id = $1 OR EXISTS (
		SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.debtor_id = $1))`

// ExpenseStore implements store.ExpenseStore using PostgreSQL
type ExpenseStore struct {
	pool PgxPool
}

// NewExpenseStore creates a new ExpenseStore instance
func NewExpenseStore(pool PgxPool) *ExpenseStore {
	return &ExpenseStore{pool: pool}
}

// CreateExpense persists the expense, its shares, and the matching ledger
// postings inside one transaction. A failure at any point rolls back the
// whole unit: shares without ledger postings can never exist.
func (s *ExpenseStore) CreateExpense(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (*types.Expense, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	insertExpense := `
		INSERT INTO expenses (title, total_amount, creator_id, split_policy, category, description, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, settled, created_at, updated_at`

	created := *expense
	err = tx.QueryRow(ctx, insertExpense,
		expense.Title,
		expense.TotalAmount,
		expense.CreatorID,
		expense.SplitPolicy,
		expense.Category,
		expense.Description,
		expense.Notes,
	).Scan(&created.ID, &created.Settled, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	insertShare := `
		INSERT INTO expense_shares (expense_id, debtor_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id`

	sum := decimal.Zero
	created.Shares = make([]types.ExpenseShare, 0, len(shares))
	for _, share := range shares {
		share.ExpenseID = created.ID
		err = tx.QueryRow(ctx, insertShare, share.ExpenseID, share.DebtorID, share.Amount).Scan(&share.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, store.ErrDuplicateShare
			}
			return nil, err
		}

		// Each share posts exactly one delta: debtor owes the creator.
		if _, err = tx.Exec(ctx, postDeltaQuery, share.DebtorID, created.CreatorID, share.Amount); err != nil {
			return nil, err
		}

		sum = sum.Add(share.Amount)
		created.Shares = append(created.Shares, share)
	}

	// Commit-time invariant guard: stored shares must leave the creator a
	// non-negative implicit portion. A violation aborts the transaction.
	if sum.GreaterThan(created.TotalAmount) {
		return nil, apperrors.Consistency(
			"share amounts exceed the expense total",
			"shares sum to "+sum.String()+", total is "+created.TotalAmount.String(),
		)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &created, nil
}

// GetExpense retrieves an expense and its shares by ID.
func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	query := `
		SELECT id, title, total_amount, creator_id, split_policy, category,
		       description, notes, settled, created_at, updated_at
		FROM expenses
		WHERE id = $1`

	expense := &types.Expense{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.Title,
		&expense.TotalAmount,
		&expense.CreatorID,
		&expense.SplitPolicy,
		&expense.Category,
		&expense.Description,
		&expense.Notes,
		&expense.Settled,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	shares, err := s.loadShares(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	return expense, nil
}

// ListUserExpenses retrieves all expenses visible to the user, newest first.
func (s *ExpenseStore) ListUserExpenses(ctx context.Context, userID string) ([]*types.Expense, error) {
	query := `
		SELECT e.id, e.title, e.total_amount, e.creator_id, e.split_policy, e.category,
		       e.description, e.notes, e.settled, e.created_at, e.updated_at
		FROM expenses e
		WHERE ` + visibleExpenses + `
		ORDER BY e.created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*types.Expense
	for rows.Next() {
		expense := &types.Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.Title,
			&expense.TotalAmount,
			&expense.CreatorID,
			&expense.SplitPolicy,
			&expense.Category,
			&expense.Description,
			&expense.Notes,
			&expense.Settled,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		shares, err := s.loadShares(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Shares = shares
	}

	return expenses, nil
}

// MarkSettled flips the settled flag on the expense.
func (s *ExpenseStore) MarkSettled(ctx context.Context, expenseID string) error {
	query := `
		UPDATE expenses
		SET settled = TRUE, updated_at = NOW()
		WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, expenseID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkSharePaid records payment on the share held by debtorID.
func (s *ExpenseStore) MarkSharePaid(ctx context.Context, expenseID, debtorID string, paidAt time.Time) error {
	query := `
		UPDATE expense_shares
		SET paid = TRUE, paid_at = $3
		WHERE expense_id = $1 AND debtor_id = $2`

	result, err := s.pool.Exec(ctx, query, expenseID, debtorID, paidAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// OutstandingTotals sums unpaid shares of unsettled expenses for the user,
// on both sides. This is the point-in-time "currently outstanding" view, as
// opposed to the ledger's cumulative one.
func (s *ExpenseStore) OutstandingTotals(ctx context.Context, userID string) (decimal.Decimal, decimal.Decimal, error) {
	owesQuery := `
		SELECT COALESCE(SUM(s.amount), 0)
		FROM expense_shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.debtor_id = $1 AND s.paid = FALSE AND e.settled = FALSE`

	var owes decimal.Decimal
	if err := s.pool.QueryRow(ctx, owesQuery, userID).Scan(&owes); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	owedQuery := `
		SELECT COALESCE(SUM(s.amount), 0)
		FROM expense_shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.creator_id = $1 AND s.paid = FALSE AND e.settled = FALSE`

	var owed decimal.Decimal
	if err := s.pool.QueryRow(ctx, owedQuery, userID).Scan(&owed); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return owes, owed, nil
}

// CategoryBreakdown aggregates visible expenses per category since the given
// time. A zero since covers the whole history.
func (s *ExpenseStore) CategoryBreakdown(ctx context.Context, userID string, since time.Time) ([]types.CategorySpend, error) {
	query := `
		SELECT e.category, SUM(e.total_amount), COUNT(*)
		FROM expenses e
		WHERE ` + visibleExpenses + ` AND e.created_at >= $2
		GROUP BY e.category
		ORDER BY SUM(e.total_amount) DESC`

	rows, err := s.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []types.CategorySpend
	for rows.Next() {
		var row types.CategorySpend
		if err := rows.Scan(&row.Category, &row.TotalAmount, &row.Count); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, row)
	}

	return breakdown, rows.Err()
}

// SpendingTrend buckets visible expenses by calendar month or week since the
// given time. Empty buckets are absent, so callers get a sparse series.
func (s *ExpenseStore) SpendingTrend(ctx context.Context, userID string, interval store.TrendInterval, since time.Time) ([]types.TrendBucket, error) {
	query := `
		SELECT date_trunc($3, e.created_at) AS period, SUM(e.total_amount), COUNT(*)
		FROM expenses e
		WHERE ` + visibleExpenses + ` AND e.created_at >= $2
		GROUP BY period
		ORDER BY period`

	rows, err := s.pool.Query(ctx, query, userID, since, string(interval))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []types.TrendBucket
	for rows.Next() {
		var bucket types.TrendBucket
		if err := rows.Scan(&bucket.PeriodStart, &bucket.TotalAmount, &bucket.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}

	return buckets, rows.Err()
}

// VisibleCountAndTotal returns how many expenses the user can see since the
// given time and their summed totals.
func (s *ExpenseStore) VisibleCountAndTotal(ctx context.Context, userID string, since time.Time) (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(e.total_amount), 0)
		FROM expenses e
		WHERE ` + visibleExpenses + ` AND e.created_at >= $2`

	var count int
	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, query, userID, since).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, err
	}
	return count, total, nil
}

// RecentExpenses returns the most recently created visible expenses, without
// their shares.
func (s *ExpenseStore) RecentExpenses(ctx context.Context, userID string, limit int) ([]types.Expense, error) {
	query := `
		SELECT e.id, e.title, e.total_amount, e.creator_id, e.split_policy, e.category,
		       e.description, e.notes, e.settled, e.created_at, e.updated_at
		FROM expenses e
		WHERE ` + visibleExpenses + `
		ORDER BY e.created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []types.Expense
	for rows.Next() {
		var expense types.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.Title,
			&expense.TotalAmount,
			&expense.CreatorID,
			&expense.SplitPolicy,
			&expense.Category,
			&expense.Description,
			&expense.Notes,
			&expense.Settled,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// SharesSpentSince sums share amounts involving the user on expenses created
// since the given time.
func (s *ExpenseStore) SharesSpentSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(s.amount), 0)
		FROM expense_shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE (s.debtor_id = $1 OR e.creator_id = $1) AND e.created_at >= $2`

	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, query, userID, since).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *ExpenseStore) loadShares(ctx context.Context, expenseID string) ([]types.ExpenseShare, error) {
	query := `
		SELECT id, expense_id, debtor_id, amount, paid, paid_at
		FROM expense_shares
		WHERE expense_id = $1
		ORDER BY debtor_id`

	rows, err := s.pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []types.ExpenseShare
	for rows.Next() {
		var share types.ExpenseShare
		if err := rows.Scan(
			&share.ID,
			&share.ExpenseID,
			&share.DebtorID,
			&share.Amount,
			&share.Paid,
			&share.PaidAt,
		); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	return shares, rows.Err()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
