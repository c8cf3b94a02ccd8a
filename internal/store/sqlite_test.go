package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "fairshare.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMembers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	added, err := s.AddMember(ctx, 1, 30)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddMember(ctx, 1, 30)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.AddMember(ctx, 1, 10)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, 2, 99)
	require.NoError(t, err)

	members, err := s.ListMembers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, members)

	ok, err := s.IsMember(ctx, 1, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsMember(ctx, 2, 99)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpenseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateExpense(ctx, &Expense{
		GroupID: 1, PayerUserID: 10, Description: "Dinner", AmountCents: 3000,
		CreatedAt: base, IdempotencyKey: "k1",
	})
	require.NoError(t, err)

	require.NoError(t, s.InsertParticipants(ctx, id, []Participant{
		{UserID: 11, ShareCents: 1000},
		{UserID: 10, ShareCents: 1000},
		{UserID: 12, ShareCents: 1000},
	}))

	got, err := s.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Description)
	assert.Equal(t, int64(3000), got.AmountCents)
	assert.Equal(t, "k1", got.IdempotencyKey)
	assert.True(t, got.CreatedAt.Equal(base))
	assert.False(t, got.Voided)

	byKey, err := s.GetExpenseByIdempotencyKey(ctx, 1, "k1")
	require.NoError(t, err)
	assert.Equal(t, id, byKey.ID)

	_, err = s.GetExpenseByIdempotencyKey(ctx, 2, "k1")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	parts, err := s.GetParticipants(ctx, id)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, int64(10), parts[0].UserID)
	assert.Equal(t, int64(12), parts[2].UserID)

	require.NoError(t, s.UpdateExpense(ctx, id, 11, "Late dinner", 4500))
	require.NoError(t, s.DeleteParticipants(ctx, id))
	parts, err = s.GetParticipants(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, parts)

	require.NoError(t, s.MarkExpenseVoided(ctx, id))
	got, err = s.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Voided)
	assert.Equal(t, "Late dinner", got.Description)
	assert.Equal(t, int64(11), got.PayerUserID)

	_, err = s.GetExpense(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, s.UpdateExpense(ctx, 999, 1, "x", 1), ErrRecordNotFound)
}

func TestIdempotencyKeyIsUniquePerGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e := &Expense{GroupID: 1, PayerUserID: 1, Description: "a", AmountCents: 100, CreatedAt: base, IdempotencyKey: "same"}
	_, err := s.CreateExpense(ctx, e)
	require.NoError(t, err)

	_, err = s.CreateExpense(ctx, e)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	e.GroupID = 2
	_, err = s.CreateExpense(ctx, e)
	assert.NoError(t, err)

	noKey := &Expense{GroupID: 1, PayerUserID: 1, Description: "b", AmountCents: 100, CreatedAt: base}
	_, err = s.CreateExpense(ctx, noKey)
	require.NoError(t, err)
	_, err = s.CreateExpense(ctx, noKey)
	assert.NoError(t, err)
}

func TestDuplicateParticipantRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateExpense(ctx, &Expense{GroupID: 1, PayerUserID: 1, Description: "a", AmountCents: 100, CreatedAt: base})
	require.NoError(t, err)

	err = s.InsertParticipants(ctx, id, []Participant{{UserID: 1, ShareCents: 50}, {UserID: 1, ShareCents: 50}})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestLedgerIsAdditive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry, err := s.GetOrCreateLedgerEntry(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.NetBalanceCents)

	require.NoError(t, s.AddToLedger(ctx, 1, 5, 250))
	require.NoError(t, s.AddToLedger(ctx, 1, 5, -100))
	require.NoError(t, s.AddToLedger(ctx, 1, 3, -150))

	entry, err = s.GetOrCreateLedgerEntry(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(150), entry.NetBalanceCents)

	entries, err := s.ListLedger(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, LedgerEntry{GroupID: 1, UserID: 3, NetBalanceCents: -150}, *entries[0])
	assert.Equal(t, LedgerEntry{GroupID: 1, UserID: 5, NetBalanceCents: 150}, *entries[1])
}

func TestExecTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("commit", func(t *testing.T) {
		err := s.ExecTx(ctx, func(r Repository) error {
			require.NoError(t, r.AddToLedger(ctx, 1, 1, 100))
			return r.AddToLedger(ctx, 1, 2, -100)
		})
		require.NoError(t, err)

		entries, err := s.ListLedger(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.ExecTx(ctx, func(r Repository) error {
			require.NoError(t, r.AddToLedger(ctx, 2, 1, 100))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		entries, err := s.ListLedger(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = s.ExecTx(ctx, func(r Repository) error {
				_ = r.AddToLedger(ctx, 3, 1, 100)
				panic("boom")
			})
		})

		entries, err := s.ListLedger(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("nested", func(t *testing.T) {
		err := s.ExecTx(ctx, func(r Repository) error {
			return r.ExecTx(ctx, func(Repository) error { return nil })
		})
		assert.ErrorIs(t, err, ErrNestedTx)
	})
}

func TestLockExpense(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateExpense(ctx, &Expense{GroupID: 1, PayerUserID: 1, Description: "a", AmountCents: 100, CreatedAt: base})
	require.NoError(t, err)

	assert.Error(t, s.LockExpense(ctx, id), "lock outside a transaction")

	err = s.ExecTx(ctx, func(r Repository) error {
		return r.LockExpense(ctx, id)
	})
	assert.NoError(t, err)

	err = s.ExecTx(ctx, func(r Repository) error {
		return r.LockExpense(ctx, 404)
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListingFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []int64
	for i := 0; i < 4; i++ {
		id, err := s.CreateExpense(ctx, &Expense{
			GroupID: 1, PayerUserID: 1, Description: "e", AmountCents: 100,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		ids = append(ids, id)

		_, err = s.InsertEvent(ctx, &ExpenseEvent{
			GroupID: 1, ExpenseID: id, EventType: "ExpenseCreated", Payload: "{}",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	require.NoError(t, s.MarkExpenseVoided(ctx, ids[3]))

	all, err := s.ListExpenses(ctx, 1, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	windowed, err := s.ListExpenses(ctx, 1, ListFilter{From: base.Add(30 * time.Minute), To: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.Equal(t, ids[2], windowed[0].ID)
	assert.Equal(t, ids[1], windowed[1].ID)

	paged, err := s.ListExpenses(ctx, 1, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, ids[1], paged[0].ID)

	events, err := s.ListEvents(ctx, 1, ListFilter{From: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ids[3], events[0].ExpenseID)

	events, err = s.ListEvents(ctx, 2, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestConfirmedTransfers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	insert := func(from, to, cents int64, confirmation string, at time.Time) {
		_, err := s.InsertConfirmedTransfer(ctx, &ConfirmedTransfer{
			GroupID: 1, FromUserID: from, ToUserID: to, AmountCents: cents,
			ConfirmationID: confirmation, CreatedAt: at,
		})
		require.NoError(t, err)
	}
	insert(2, 1, 500, "c1", base)
	insert(3, 1, 700, "c1", base)
	insert(2, 1, 250, "c2", base.Add(time.Hour))

	n, err := s.CountConfirmedTransfers(ctx, 1, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountConfirmedTransfers(ctx, 1, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	sum, err := s.SumConfirmedTransfers(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(750), sum)

	sum, err = s.SumConfirmedTransfers(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, sum)

	batch, err := s.ListConfirmedTransfers(ctx, 1, "c1", ListFilter{From: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	recent, err := s.ListConfirmedTransfers(ctx, 1, "", ListFilter{From: base.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c2", recent[0].ConfirmationID)
}

func TestShareQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	create := func(payer int64, voided bool, shares ...Participant) int64 {
		id, err := s.CreateExpense(ctx, &Expense{GroupID: 1, PayerUserID: payer, Description: "e", AmountCents: 1000, CreatedAt: base})
		require.NoError(t, err)
		require.NoError(t, s.InsertParticipants(ctx, id, shares))
		if voided {
			require.NoError(t, s.MarkExpenseVoided(ctx, id))
		}
		return id
	}
	create(1, false, Participant{UserID: 1, ShareCents: 500}, Participant{UserID: 2, ShareCents: 500})
	create(1, true, Participant{UserID: 1, ShareCents: 400}, Participant{UserID: 2, ShareCents: 600})

	owed, err := s.SumSharesOwedTo(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), owed)

	active, err := s.ListActiveShares(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
