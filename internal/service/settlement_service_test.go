package service

import (
	"math/rand"
	"testing"

	"github.com/hance08/fairshare/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettlements(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2, 3, 4)

	f.create(t, 1, ExpenseInput{Description: "Flat", Amount: amt("120.00"), PayerUserID: 1})
	f.create(t, 1, ExpenseInput{
		Description: "Groceries", Amount: amt("20.00"), PayerUserID: 2, ParticipantUserIDs: []int64{2, 3},
	})
	require.Equal(t, map[int64]string{1: "90.00", 2: "-20.00", 3: "-40.00", 4: "-30.00"}, f.ledger(t, 1))

	transfers, err := f.svc.Settlement.GetSettlements(f.ctx, 1)
	require.NoError(t, err)
	require.Len(t, transfers, 3)

	got := make([][2]int64, 0, len(transfers))
	for _, tr := range transfers {
		got = append(got, [2]int64{tr.FromUserID, tr.ToUserID})
	}
	assert.Equal(t, [][2]int64{{3, 1}, {4, 1}, {2, 1}}, got)
	assert.Equal(t, "40.00", money.Format(transfers[0].Amount))
	assert.Equal(t, "30.00", money.Format(transfers[1].Amount))
	assert.Equal(t, "20.00", money.Format(transfers[2].Amount))

	owed, err := f.svc.Settlement.AmountOwed(f.ctx, 1, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "30.00", money.Format(owed))

	owed, err = f.svc.Settlement.AmountOwed(f.ctx, 1, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "0.00", money.Format(owed))

	_, err = f.svc.Settlement.AmountOwed(f.ctx, 1, 4, 99)
	assert.True(t, IsValidation(err))
}

func TestGetSettlementsEmptyGroup(t *testing.T) {
	f := newFixture(t)

	transfers, err := f.svc.Settlement.GetSettlements(f.ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestConfirmSettlementsZeroesLedger(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2, 3)

	f.create(t, 1, ExpenseInput{Description: "Boat", Amount: amt("100.00"), PayerUserID: 1})
	transfers, err := f.svc.Settlement.GetSettlements(f.ctx, 1)
	require.NoError(t, err)

	res, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "", ConfirmRequest{Transfers: transfers})
	require.NoError(t, err)
	assert.Equal(t, Created, res.Outcome)
	assert.Equal(t, len(transfers), res.Applied)
	assert.NotEmpty(t, res.ConfirmationID)

	for uid, balance := range f.ledger(t, 1) {
		assert.Equal(t, "0.00", balance, "user %d", uid)
	}

	after, err := f.svc.Settlement.GetSettlements(f.ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, after)

	recorded, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, res.ConfirmationID, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, recorded, len(transfers))
}

func TestConfirmSettlementsIdempotency(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2)
	f.members(t, 2, 1, 2)

	f.create(t, 1, ExpenseInput{Description: "Bikes", Amount: amt("30.00"), PayerUserID: 1})
	req := ConfirmRequest{
		ConfirmationID: "batch-1",
		Transfers:      []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("10.00")}},
	}

	first, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "", req)
	require.NoError(t, err)
	assert.Equal(t, &ConfirmResult{ConfirmationID: "batch-1", Applied: 1, Outcome: Created}, first)

	req.Transfers = append(req.Transfers, Transfer{FromUserID: 2, ToUserID: 1, Amount: amt("5.00")})
	second, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "", req)
	require.NoError(t, err)
	assert.Equal(t, &ConfirmResult{ConfirmationID: "batch-1", Applied: 1, Outcome: Replayed}, second)
	assert.Equal(t, map[int64]string{1: "5.00", 2: "-5.00"}, f.ledger(t, 1))

	other, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 2, "", req)
	require.NoError(t, err)
	assert.Equal(t, Created, other.Outcome)
	assert.Equal(t, 2, other.Applied)
}

func TestConfirmSettlementsIDResolution(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2)
	f.svc.Settlement.newID = func() string { return "generated" }

	transfer := []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("1.00")}}

	tests := []struct {
		name   string
		header string
		body   string
		want   string
	}{
		{name: "header wins", header: "from-header", body: "from-body", want: "from-header"},
		{name: "blank header falls back to body", header: "  ", body: "from-body-2", want: "from-body-2"},
		{name: "generated when both blank", header: "", body: " ", want: "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, tt.header, ConfirmRequest{
				ConfirmationID: tt.body,
				Transfers:      transfer,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.ConfirmationID)
			assert.Equal(t, Created, res.Outcome)
		})
	}

	assert.Equal(t, "generated", f.svc.Settlement.NewConfirmationID())
}

func TestConfirmSettlementsEmptyBatch(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2)

	res, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "ignored", ConfirmRequest{})
	require.NoError(t, err)
	assert.Equal(t, &ConfirmResult{Outcome: Created}, res)

	recorded, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, "", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestConfirmSettlementsRejects(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2)
	f.create(t, 1, ExpenseInput{Description: "Ferry", Amount: amt("8.00"), PayerUserID: 1})
	before := f.ledger(t, 1)

	tests := []struct {
		name      string
		transfers []Transfer
	}{
		{name: "zero amount", transfers: []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("0")}}},
		{name: "negative amount", transfers: []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("-3")}}},
		{name: "rounds to zero", transfers: []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("0.004")}}},
		{name: "beyond cents range", transfers: []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("190000000000000000")}}},
		{name: "unknown payer", transfers: []Transfer{{FromUserID: 9, ToUserID: 1, Amount: amt("1")}}},
		{name: "unknown receiver", transfers: []Transfer{{FromUserID: 2, ToUserID: 9, Amount: amt("1")}}},
		{
			name: "bad transfer after a good one",
			transfers: []Transfer{
				{FromUserID: 2, ToUserID: 1, Amount: amt("2")},
				{FromUserID: 2, ToUserID: 1, Amount: amt("-1")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "reject-"+tt.name, ConfirmRequest{Transfers: tt.transfers})
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	assert.Equal(t, before, f.ledger(t, 1))
	recorded, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, "", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestListConfirmedTransfers(t *testing.T) {
	f := newFixture(t)
	f.members(t, 1, 1, 2, 3)

	_, err := f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "a", ConfirmRequest{
		Transfers: []Transfer{{FromUserID: 2, ToUserID: 1, Amount: amt("1.00")}},
	})
	require.NoError(t, err)
	_, err = f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "b", ConfirmRequest{
		Transfers: []Transfer{
			{FromUserID: 3, ToUserID: 1, Amount: amt("2.00")},
			{FromUserID: 3, ToUserID: 2, Amount: amt("3.00")},
		},
	})
	require.NoError(t, err)

	all, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, "", ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ConfirmationID)
	assert.Equal(t, "a", all[2].ConfirmationID)

	batch, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, "b", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	page, err := f.svc.Settlement.ListConfirmedTransfers(f.ctx, 1, "", ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

// Random operations must always leave a ledger that sums to zero and that
// the suggested transfers settle completely.
func TestRandomOperationsKeepLedgerBalanced(t *testing.T) {
	f := newFixture(t)
	users := []int64{1, 2, 3, 4, 5}
	f.members(t, 1, users...)

	rng := rand.New(rand.NewSource(42))
	pick := func() []int64 {
		var out []int64
		for _, u := range users {
			if rng.Intn(2) == 0 {
				out = append(out, u)
			}
		}
		return out
	}
	randomAmount := func() string {
		return money.FormatCents(int64(rng.Intn(50000) + 1))
	}

	var ids []int64
	for i := 0; i < 60; i++ {
		payer := users[rng.Intn(len(users))]
		switch op := rng.Intn(4); {
		case op <= 1 || len(ids) == 0:
			in := ExpenseInput{Description: "random", Amount: amt(randomAmount()), PayerUserID: payer, ParticipantUserIDs: pick()}
			if len(in.ParticipantUserIDs) > 0 && rng.Intn(2) == 0 {
				in.Shares = make([]int64, len(in.ParticipantUserIDs))
				for j := range in.Shares {
					in.Shares[j] = int64(rng.Intn(5) + 1)
				}
			}
			ids = append(ids, f.create(t, 1, in).ID)
		case op == 2:
			id := ids[rng.Intn(len(ids))]
			_, err := f.svc.Expense.UpdateExpense(f.ctx, 1, id, ExpenseInput{
				Description: "random", Amount: amt(randomAmount()), PayerUserID: payer, ParticipantUserIDs: pick(),
			})
			if err != nil {
				require.ErrorIs(t, err, ErrConflict)
			}
		default:
			require.NoError(t, f.svc.Expense.VoidExpense(f.ctx, 1, ids[rng.Intn(len(ids))]))
		}
		f.ledger(t, 1)
	}

	transfers, err := f.svc.Settlement.GetSettlements(f.ctx, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(transfers), len(users)-1)

	_, err = f.svc.Settlement.ConfirmSettlements(f.ctx, 1, "", ConfirmRequest{Transfers: transfers})
	require.NoError(t, err)
	for uid, balance := range f.ledger(t, 1) {
		assert.Equal(t, "0.00", balance, "user %d", uid)
	}
}
