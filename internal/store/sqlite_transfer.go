package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) InsertConfirmedTransfer(ctx context.Context, t *ConfirmedTransfer) (int64, error) {
	var newID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO confirmed_transfers (group_id, from_user_id, to_user_id, amount_cents, confirmation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id;
	`, t.GroupID, t.FromUserID, t.ToUserID, t.AmountCents, t.ConfirmationID, toMillis(t.CreatedAt)).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert confirmed transfer: %w", err)
	}
	return newID, nil
}

func (s *Store) CountConfirmedTransfers(ctx context.Context, groupID int64, confirmationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM confirmed_transfers
		WHERE group_id = ? AND confirmation_id = ?
	`, groupID, confirmationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed transfers: %w", err)
	}
	return n, nil
}

func (s *Store) SumConfirmedTransfers(ctx context.Context, groupID, fromUserID, toUserID int64) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(amount_cents)
		FROM confirmed_transfers
		WHERE group_id = ? AND from_user_id = ? AND to_user_id = ?
	`, groupID, fromUserID, toUserID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum confirmed transfers: %w", err)
	}
	return total.Int64, nil
}

// ListConfirmedTransfers returns newest first. A non-empty confirmationID
// selects that batch and ignores the time window.
func (s *Store) ListConfirmedTransfers(ctx context.Context, groupID int64, confirmationID string, filter ListFilter) ([]*ConfirmedTransfer, error) {
	where := []string{"group_id = ?"}
	args := []any{groupID}
	if confirmationID != "" {
		where = append(where, "confirmation_id = ?")
		args = append(args, confirmationID)
	} else {
		where, args = filter.window("created_at", where, args)
	}
	limit, args := filter.page(args)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, from_user_id, to_user_id, amount_cents, confirmation_id, created_at
		FROM confirmed_transfers`+joinWhere(where)+`
		ORDER BY created_at DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*ConfirmedTransfer
	for rows.Next() {
		t := &ConfirmedTransfer{}
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.GroupID, &t.FromUserID, &t.ToUserID,
			&t.AmountCents, &t.ConfirmationID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan confirmed transfer: %w", err)
		}
		t.CreatedAt = fromMillis(createdAt)
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
