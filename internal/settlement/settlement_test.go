package settlement

import (
	"math/rand"
	"testing"

	"github.com/hance08/fairshare/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bal(id int64, amount string) Balance {
	return Balance{UserID: id, Amount: decimal.RequireFromString(amount)}
}

type flat struct {
	From, To int64
	Amount   string
}

func flatten(ts []Transfer) []flat {
	if len(ts) == 0 {
		return nil
	}
	out := make([]flat, len(ts))
	for i, t := range ts {
		out[i] = flat{t.FromUserID, t.ToUserID, money.Format(t.Amount)}
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []flat
	}{
		{
			name:     "equal debtors tie on id",
			balances: []Balance{bal(1, "20.00"), bal(3, "-10.00"), bal(2, "-10.00")},
			want:     []flat{{2, 1, "10.00"}, {3, 1, "10.00"}},
		},
		{
			name:     "single cent",
			balances: []Balance{bal(1, "0.01"), bal(2, "-0.01")},
			want:     []flat{{2, 1, "0.01"}},
		},
		{
			name:     "zero balances dropped",
			balances: []Balance{bal(1, "0.00"), bal(2, "0.00")},
			want:     nil,
		},
		{
			name:     "largest creditor first",
			balances: []Balance{bal(1, "5.00"), bal(2, "15.00"), bal(3, "-20.00")},
			want:     []flat{{3, 2, "15.00"}, {3, 1, "5.00"}},
		},
		{
			name:     "equal creditors tie on id",
			balances: []Balance{bal(4, "10.00"), bal(2, "10.00"), bal(1, "-20.00")},
			want:     []flat{{1, 2, "10.00"}, {1, 4, "10.00"}},
		},
		{
			name: "chain",
			balances: []Balance{
				bal(1, "-30.00"), bal(2, "-5.00"), bal(3, "25.00"), bal(4, "10.00"),
			},
			want: []flat{{1, 3, "25.00"}, {1, 4, "5.00"}, {2, 4, "5.00"}},
		},
		{
			name:     "sub cent residue absorbed",
			balances: []Balance{bal(1, "10.004"), bal(2, "-10.00")},
			want:     []flat{{2, 1, "10.00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flatten(Compute(tt.balances)))
		})
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	balances := []Balance{bal(1, "20.00"), bal(2, "-10.00"), bal(3, "-10.00")}
	Compute(balances)
	assert.Equal(t, "20.00", money.Format(balances[0].Amount))
	assert.Equal(t, "-10.00", money.Format(balances[1].Amount))
}

func TestComputeSettlesEveryone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 300; iter++ {
		n := rng.Intn(8) + 2
		cents := make([]int64, n)
		var sum int64
		for i := 0; i < n-1; i++ {
			cents[i] = rng.Int63n(20001) - 10000
			sum += cents[i]
		}
		cents[n-1] = -sum

		balances := make([]Balance, n)
		for i := range balances {
			balances[i] = Balance{UserID: int64(i + 1), Amount: money.FromCents(cents[i])}
		}

		net := make(map[int64]int64, n)
		for _, b := range balances {
			net[b.UserID] = money.ToCents(b.Amount)
		}
		transfers := Compute(balances)
		require.LessOrEqual(t, len(transfers), n-1)
		for _, tr := range transfers {
			require.True(t, tr.Amount.IsPositive())
			net[tr.FromUserID] += money.ToCents(tr.Amount)
			net[tr.ToUserID] -= money.ToCents(tr.Amount)
		}
		for id, v := range net {
			require.Zero(t, v, "iteration %d user %d", iter, id)
		}
	}
}

func TestBetween(t *testing.T) {
	transfers := []Transfer{
		{FromUserID: 2, ToUserID: 1, Amount: decimal.RequireFromString("4.50")},
		{FromUserID: 3, ToUserID: 1, Amount: decimal.RequireFromString("1.00")},
		{FromUserID: 2, ToUserID: 1, Amount: decimal.RequireFromString("0.50")},
	}
	assert.Equal(t, "5.00", money.Format(Between(transfers, 2, 1)))
	assert.Equal(t, "0.00", money.Format(Between(transfers, 1, 2)))
}
