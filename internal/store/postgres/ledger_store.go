package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/quickbill-app/quickbill-backend/internal/store"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

// postDeltaQuery is the single atomic read-modify-write for a balance entry.
// The whole increment happens inside one statement, so concurrent postings to
// the same (debtor, creditor) pair serialize at the row level and no update
// is ever lost.
const postDeltaQuery = `
	INSERT INTO balance_entries (debtor_id, creditor_id, amount, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (debtor_id, creditor_id)
	DO UPDATE SET amount = balance_entries.amount + EXCLUDED.amount,
	              last_updated = NOW()`

// LedgerStore implements store.LedgerStore using PostgreSQL.
//
// The ledger accumulates gross obligations: nothing ever decrements an entry,
// not even marking a share paid or settling an expense. Entries are never
// deleted; absence means no posting has ever touched the pair.
type LedgerStore struct {
	pool PgxPool
}

// NewLedgerStore creates a new LedgerStore instance
func NewLedgerStore(pool PgxPool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Post adds delta to the entry for the ordered (debtor, creditor) pair,
// creating the entry on first posting.
func (s *LedgerStore) Post(ctx context.Context, debtorID, creditorID string, delta decimal.Decimal) error {
	_, err := s.pool.Exec(ctx, postDeltaQuery, debtorID, creditorID, delta)
	return err
}

// GetEntry retrieves the entry for the ordered pair.
func (s *LedgerStore) GetEntry(ctx context.Context, debtorID, creditorID string) (*types.BalanceEntry, error) {
	query := `
		SELECT debtor_id, creditor_id, amount, last_updated
		FROM balance_entries
		WHERE debtor_id = $1 AND creditor_id = $2`

	entry := &types.BalanceEntry{}
	err := s.pool.QueryRow(ctx, query, debtorID, creditorID).Scan(
		&entry.DebtorID,
		&entry.CreditorID,
		&entry.Amount,
		&entry.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	return entry, nil
}

// ListEntriesForUser retrieves every entry where the user is debtor or creditor.
func (s *LedgerStore) ListEntriesForUser(ctx context.Context, userID string) ([]types.BalanceEntry, error) {
	query := `
		SELECT debtor_id, creditor_id, amount, last_updated
		FROM balance_entries
		WHERE debtor_id = $1 OR creditor_id = $1
		ORDER BY last_updated DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.BalanceEntry
	for rows.Next() {
		var entry types.BalanceEntry
		if err := rows.Scan(
			&entry.DebtorID,
			&entry.CreditorID,
			&entry.Amount,
			&entry.LastUpdated,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
