package store

import (
	"context"
	"fmt"
)

func (s *Store) InsertEvent(ctx context.Context, e *ExpenseEvent) (int64, error) {
	var newID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO expense_events (group_id, expense_id, event_type, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id;
	`, e.GroupID, e.ExpenseID, e.EventType, e.Payload, toMillis(e.CreatedAt)).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense event: %w", err)
	}
	return newID, nil
}

func (s *Store) ListEvents(ctx context.Context, groupID int64, filter ListFilter) ([]*ExpenseEvent, error) {
	where, args := filter.window("created_at", []string{"group_id = ?"}, []any{groupID})
	limit, args := filter.page(args)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, expense_id, event_type, payload, created_at
		FROM expense_events`+joinWhere(where)+`
		ORDER BY created_at DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense events: %w", err)
	}
	defer rows.Close()

	var events []*ExpenseEvent
	for rows.Next() {
		e := &ExpenseEvent{}
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.GroupID, &e.ExpenseID, &e.EventType, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense event: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
