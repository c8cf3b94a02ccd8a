package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hance08/fairshare/internal/config"
	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type tickClock struct {
	n atomic.Int64
}

func (c *tickClock) Now() time.Time {
	return base.Add(time.Duration(c.n.Add(1)) * time.Minute)
}

type fixture struct {
	ctx   context.Context
	svc   *Service
	store *store.Store
	hook  *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := store.NewStore(filepath.Join(t.TempDir(), "fairshare.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log, hook := test.NewNullLogger()
	svc := NewService(s, config.NewDefault(), log)

	clock := &tickClock{}
	svc.Expense.now = clock.Now
	svc.Settlement.now = clock.Now

	return &fixture{ctx: context.Background(), svc: svc, store: s, hook: hook}
}

func (f *fixture) members(t *testing.T, groupID int64, ids ...int64) {
	t.Helper()
	_, err := f.svc.Member.AddMembers(f.ctx, groupID, ids...)
	require.NoError(t, err)
}

func (f *fixture) ledger(t *testing.T, groupID int64) map[int64]string {
	t.Helper()
	balances, err := f.svc.Settlement.GetLedger(f.ctx, groupID)
	require.NoError(t, err)

	out := make(map[int64]string, len(balances))
	sum := decimal.Zero
	for _, b := range balances {
		out[b.UserID] = money.Format(b.NetBalance)
		sum = sum.Add(b.NetBalance)
	}
	require.True(t, sum.IsZero(), "ledger of group %d sums to %s", groupID, sum)
	return out
}

func (f *fixture) create(t *testing.T, groupID int64, in ExpenseInput) *Expense {
	t.Helper()
	res, err := f.svc.Expense.CreateExpense(f.ctx, groupID, "", in)
	require.NoError(t, err)
	require.Equal(t, Created, res.Outcome)
	return res.Expense
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = amt(v)
	}
	return out
}

func splitsOf(e *Expense) map[int64]string {
	out := make(map[int64]string, len(e.Splits))
	for _, s := range e.Splits {
		out[s.UserID] = money.Format(s.Amount)
	}
	return out
}
