// Package settlement converts net balances into suggested transfers using a
// greedy debtor/creditor sweep.
package settlement

import (
	"sort"

	"github.com/hance08/fairshare/internal/money"
	"github.com/shopspring/decimal"
)

type Balance struct {
	UserID int64
	Amount decimal.Decimal
}

type Transfer struct {
	FromUserID int64
	ToUserID   int64
	Amount     decimal.Decimal
}

// Compute never mutates balances. Debtors are visited most negative first and
// creditors largest first, ties on amount going to the lower user id.
func Compute(balances []Balance) []Transfer {
	var debtors, creditors []Balance
	for _, b := range balances {
		v := money.Normalize(b.Amount)
		switch v.Sign() {
		case -1:
			debtors = append(debtors, Balance{UserID: b.UserID, Amount: v})
		case 1:
			creditors = append(creditors, Balance{UserID: b.UserID, Amount: v})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if c := debtors[i].Amount.Cmp(debtors[j].Amount); c != 0 {
			return c < 0
		}
		return debtors[i].UserID < debtors[j].UserID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if c := creditors[i].Amount.Cmp(creditors[j].Amount); c != 0 {
			return c > 0
		}
		return creditors[i].UserID < creditors[j].UserID
	})

	var out []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debt := debtors[i].Amount.Abs()
		credit := creditors[j].Amount

		pay := money.Normalize(decimal.Min(debt, credit))
		if pay.IsPositive() {
			out = append(out, Transfer{
				FromUserID: debtors[i].UserID,
				ToUserID:   creditors[j].UserID,
				Amount:     pay,
			})
		}

		remainingDebt := debt.Sub(pay)
		remainingCredit := credit.Sub(pay)

		if money.IsSettled(remainingDebt) {
			i++
		} else {
			debtors[i].Amount = remainingDebt.Neg()
		}
		if money.IsSettled(remainingCredit) {
			j++
		} else {
			creditors[j].Amount = remainingCredit
		}
	}
	return out
}

// Between sums the suggested transfers from one user to another.
func Between(transfers []Transfer, from, to int64) decimal.Decimal {
	total := money.Zero
	for _, t := range transfers {
		if t.FromUserID == from && t.ToUserID == to {
			total = total.Add(t.Amount)
		}
	}
	return money.Normalize(total)
}
