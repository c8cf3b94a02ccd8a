package store

import (
	"context"
	"fmt"
)

func (s *Store) GetOrCreateLedgerEntry(ctx context.Context, groupID, userID int64) (*LedgerEntry, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO ledger_entries (group_id, user_id, net_balance_cents)
		VALUES (?, ?, 0)
	`, groupID, userID); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	entry := &LedgerEntry{GroupID: groupID, UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT net_balance_cents
		FROM ledger_entries
		WHERE group_id = ? AND user_id = ?
	`, groupID, userID).Scan(&entry.NetBalanceCents)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entry: %w", err)
	}
	return entry, nil
}

// AddToLedger is the only ledger mutator: it adds a signed delta to the
// stored balance, creating the entry at zero first when needed.
func (s *Store) AddToLedger(ctx context.Context, groupID, userID, deltaCents int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (group_id, user_id, net_balance_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (group_id, user_id)
		DO UPDATE SET net_balance_cents = net_balance_cents + excluded.net_balance_cents
	`, groupID, userID, deltaCents)
	if err != nil {
		return fmt.Errorf("failed to apply ledger delta for user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) ListLedger(ctx context.Context, groupID int64) ([]*LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, user_id, net_balance_cents
		FROM ledger_entries
		WHERE group_id = ?
		ORDER BY user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []*LedgerEntry
	for rows.Next() {
		e := &LedgerEntry{}
		if err := rows.Scan(&e.GroupID, &e.UserID, &e.NetBalanceCents); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
