package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const expenseColumns = `id, group_id, payer_user_id, description, amount_cents, created_at, COALESCE(idempotency_key, ''), voided`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*Expense, error) {
	e := &Expense{}
	var createdAt int64
	err := row.Scan(&e.ID, &e.GroupID, &e.PayerUserID, &e.Description,
		&e.AmountCents, &createdAt, &e.IdempotencyKey, &e.Voided)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *Expense) (int64, error) {
	var key any
	if e.IdempotencyKey != "" {
		key = e.IdempotencyKey
	}

	var newID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO expenses (group_id, payer_user_id, description, amount_cents, created_at, idempotency_key, voided)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id;
	`, e.GroupID, e.PayerUserID, e.Description, e.AmountCents, toMillis(e.CreatedAt), key, e.Voided).Scan(&newID)
	if err != nil {
		if isConstraintErr(err) {
			return 0, fmt.Errorf("failed to insert expense: %w", ErrConstraintViolation)
		}
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}
	return newID, nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID int64) (*Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense with ID %d: %w", expenseID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query expense with ID %d: %w", expenseID, err)
	}
	return e, nil
}

func (s *Store) GetExpenseByIdempotencyKey(ctx context.Context, groupID int64, key string) (*Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? AND idempotency_key = ?", groupID, key)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense with key %q: %w", key, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query expense by idempotency key: %w", err)
	}
	return e, nil
}

// LockExpense claims the expense row for the rest of the enclosing
// transaction by writing it without changing it.
func (s *Store) LockExpense(ctx context.Context, expenseID int64) error {
	if _, ok := s.db.(*sql.Tx); !ok {
		return fmt.Errorf("LockExpense must be called within a transaction")
	}
	res, err := s.db.ExecContext(ctx, "UPDATE expenses SET id = id WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to lock expense %d: %w", expenseID, err)
	}
	return requireOneRow(res, "expense", expenseID)
}

func (s *Store) UpdateExpense(ctx context.Context, expenseID, payerUserID int64, description string, amountCents int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET payer_user_id = ?, description = ?, amount_cents = ?
		WHERE id = ?
	`, payerUserID, description, amountCents, expenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", expenseID, err)
	}
	return requireOneRow(res, "expense", expenseID)
}

func (s *Store) MarkExpenseVoided(ctx context.Context, expenseID int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE expenses SET voided = 1 WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to void expense %d: %w", expenseID, err)
	}
	return requireOneRow(res, "expense", expenseID)
}

// ListExpenses returns active expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context, groupID int64, filter ListFilter) ([]*Expense, error) {
	where := []string{"group_id = ?", "voided = 0"}
	args := []any{groupID}
	where, args = filter.window("created_at", where, args)
	limit, args := filter.page(args)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses"+joinWhere(where)+" ORDER BY created_at DESC, id DESC"+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) InsertParticipants(ctx context.Context, expenseID int64, participants []Participant) error {
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO expense_participants (expense_id, user_id, share_cents)
		VALUES (?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare participant SQL: %w", err)
	}
	defer stmt.Close()

	for _, p := range participants {
		if _, err := stmt.ExecContext(ctx, expenseID, p.UserID, p.ShareCents); err != nil {
			if isConstraintErr(err) {
				return fmt.Errorf("failed to insert participant (user_id: %d): %w", p.UserID, ErrConstraintViolation)
			}
			return fmt.Errorf("failed to insert participant (user_id: %d): %w", p.UserID, err)
		}
	}
	return nil
}

func (s *Store) DeleteParticipants(ctx context.Context, expenseID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete participants of expense %d: %w", expenseID, err)
	}
	return nil
}

// GetParticipants returns the stored split rows ordered by user id.
func (s *Store) GetParticipants(ctx context.Context, expenseID int64) ([]*Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT expense_id, user_id, share_cents
		FROM expense_participants
		WHERE expense_id = ?
		ORDER BY user_id
	`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(&p.ExpenseID, &p.UserID, &p.ShareCents); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListActiveShares returns every split row of the group's non-voided expenses.
func (s *Store) ListActiveShares(ctx context.Context, groupID int64) ([]*ExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.description, e.created_at, p.user_id, p.share_cents
		FROM expense_participants p
		INNER JOIN expenses e ON e.id = p.expense_id
		WHERE e.group_id = ? AND e.voided = 0
		ORDER BY e.created_at DESC, e.id DESC, p.user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shares: %w", err)
	}
	defer rows.Close()

	var shares []*ExpenseShare
	for rows.Next() {
		sh := &ExpenseShare{}
		var createdAt int64
		if err := rows.Scan(&sh.ExpenseID, &sh.Description, &createdAt, &sh.UserID, &sh.ShareCents); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		sh.CreatedAt = fromMillis(createdAt)
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// SumSharesOwedTo adds up userID's shares on expenses paid by payerUserID,
// voided expenses included.
func (s *Store) SumSharesOwedTo(ctx context.Context, groupID, payerUserID, userID int64) (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(p.share_cents)
		FROM expense_participants p
		INNER JOIN expenses e ON e.id = p.expense_id
		WHERE e.group_id = ? AND e.payer_user_id = ? AND p.user_id = ?
	`, groupID, payerUserID, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum shares: %w", err)
	}
	return total.Int64, nil
}

func requireOneRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s with ID %d: %w", what, id, ErrRecordNotFound)
	}
	return nil
}
