// Package split turns an expense total and one split mode into per-user shares
// that sum exactly to the total.
package split

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hance08/fairshare/internal/money"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeEqual       Mode = "equal"
	ModeExact       Mode = "exactAmounts"
	ModePercentages Mode = "percentages"
	ModeShares      Mode = "shares"
)

// Request describes one split. ExactAmounts, Percentages and Weights are
// aligned positionally with Participants; at most one of them may be set.
type Request struct {
	Total        decimal.Decimal
	Payer        int64
	Participants []int64
	ExactAmounts []decimal.Decimal
	Percentages  []decimal.Decimal
	// Weights may contain zeros as long as at least one weight is positive;
	// a zero-weight participant is kept with a 0.00 share.
	Weights      []int64
}

type Share struct {
	UserID int64
	Amount decimal.Decimal
}

// Error is returned for every input the calculator rejects.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Mode reports which split mode the request selects.
func (r Request) Mode() (Mode, error) {
	var found []string
	if len(r.ExactAmounts) > 0 {
		found = append(found, string(ModeExact))
	}
	if len(r.Percentages) > 0 {
		found = append(found, string(ModePercentages))
	}
	if len(r.Weights) > 0 {
		found = append(found, string(ModeShares))
	}
	if len(found) > 1 {
		return "", errorf("Only one split mode can be provided. Found: %s", strings.Join(found, ", "))
	}
	if len(found) == 0 {
		return ModeEqual, nil
	}
	return Mode(found[0]), nil
}

// Unique rejects participant lists containing the same user twice.
func Unique(ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return errorf("Participants must be unique")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Compute returns shares ordered by ascending user id. The payer is always
// part of the result and receives 0.00 when absent from the participants of
// a weighted mode.
func Compute(req Request) ([]Share, error) {
	total := money.Normalize(req.Total)
	if total.IsNegative() {
		return nil, errorf("Amount must be non-negative")
	}
	if _, err := money.CheckedCents(total); err != nil {
		return nil, errorf("Amount is too large")
	}
	if err := Unique(req.Participants); err != nil {
		return nil, err
	}

	mode, err := req.Mode()
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeExact:
		return exact(total, req)
	case ModePercentages:
		return percentages(total, req)
	case ModeShares:
		return weighted(total, req)
	default:
		return equal(total, withPayer(req.Participants, req.Payer)), nil
	}
}

func withPayer(ids []int64, payer int64) []int64 {
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids...)
	for _, id := range ids {
		if id == payer {
			return out
		}
	}
	return append(out, payer)
}

func checkLength(mode Mode, got, want int) error {
	if got != want {
		return errorf("%s length must match participants length", mode)
	}
	return nil
}

func exact(total decimal.Decimal, req Request) ([]Share, error) {
	if err := checkLength(ModeExact, len(req.ExactAmounts), len(req.Participants)); err != nil {
		return nil, err
	}

	tmp := make(map[int64]decimal.Decimal, len(req.Participants)+1)
	sum := money.Zero
	for i, id := range req.Participants {
		v := money.Normalize(req.ExactAmounts[i])
		if v.IsNegative() {
			return nil, errorf("Exact amounts must be non-negative")
		}
		tmp[id] = v
		sum = sum.Add(v)
	}
	if _, ok := tmp[req.Payer]; !ok {
		tmp[req.Payer] = money.Zero
	}

	if money.Normalize(sum).Sub(total).Abs().GreaterThan(money.Cent) {
		return nil, errorf("Exact amounts must sum to total amount within 0.01 tolerance")
	}
	return reconcile(tmp, total), nil
}

func percentages(total decimal.Decimal, req Request) ([]Share, error) {
	if err := checkLength(ModePercentages, len(req.Percentages), len(req.Participants)); err != nil {
		return nil, err
	}

	sum := money.Zero
	for _, p := range req.Percentages {
		if p.IsNegative() {
			return nil, errorf("Percentages must be non-negative")
		}
		sum = sum.Add(p)
	}
	if money.Normalize(sum).Sub(money.Hundred).Abs().GreaterThan(money.Cent) {
		return nil, errorf("Percentages must sum to 100 within 0.01 tolerance")
	}

	tmp := make(map[int64]decimal.Decimal, len(req.Participants)+1)
	for i, id := range req.Participants {
		tmp[id] = money.Truncate(total.Mul(req.Percentages[i]).Div(money.Hundred))
	}
	if _, ok := tmp[req.Payer]; !ok {
		tmp[req.Payer] = money.Zero
	}
	return reconcile(tmp, total), nil
}

// fractionPlaces is the precision of weight/Σweights before it scales the total.
const fractionPlaces = 10

func weighted(total decimal.Decimal, req Request) ([]Share, error) {
	if err := checkLength(ModeShares, len(req.Weights), len(req.Participants)); err != nil {
		return nil, err
	}

	var sum int64
	for _, w := range req.Weights {
		if w < 0 {
			return nil, errorf("Shares must be non-negative")
		}
		if w > math.MaxInt64-sum {
			return nil, errorf("Sum of shares is too large")
		}
		sum += w
	}
	if sum <= 0 {
		return nil, errorf("Sum of shares must be positive")
	}

	denominator := decimal.NewFromInt(sum)
	tmp := make(map[int64]decimal.Decimal, len(req.Participants)+1)
	for i, id := range req.Participants {
		fraction := decimal.NewFromInt(req.Weights[i]).DivRound(denominator, fractionPlaces)
		tmp[id] = money.Truncate(total.Mul(fraction))
	}
	if _, ok := tmp[req.Payer]; !ok {
		tmp[req.Payer] = money.Zero
	}
	return reconcile(tmp, total), nil
}

func equal(total decimal.Decimal, ids []int64) []Share {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := int64(len(sorted))
	totalCents := money.ToCents(total)
	base := totalCents / n
	leftover := totalCents - base*n

	cents := make([]int64, n)
	for i := range cents {
		cents[i] = base
	}
	for i := int64(0); i < leftover; i++ {
		cents[i%n]++
	}
	return toShares(sorted, cents)
}

// reconcile normalizes every provisional share and then hands out the cent
// difference to the total one cent at a time in ascending user id order,
// cycling until nothing is left. Negative adjustments skip shares already
// at 0.00.
func reconcile(tmp map[int64]decimal.Decimal, total decimal.Decimal) []Share {
	ids := make([]int64, 0, len(tmp))
	for id := range tmp {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cents := make([]int64, len(ids))
	var sum int64
	for i, id := range ids {
		cents[i] = money.ToCents(tmp[id])
		sum += cents[i]
	}

	diff := money.ToCents(total) - sum
	n := len(ids)
	for i := 0; diff > 0; i++ {
		cents[i%n]++
		diff--
	}
	for i := 0; diff < 0; i++ {
		if cents[i%n] == 0 {
			continue
		}
		cents[i%n]--
		diff++
	}
	return toShares(ids, cents)
}

func toShares(ids []int64, cents []int64) []Share {
	out := make([]Share, len(ids))
	for i, id := range ids {
		out[i] = Share{UserID: id, Amount: money.FromCents(cents[i])}
	}
	return out
}

// Sum adds up the share amounts.
func Sum(shares []Share) decimal.Decimal {
	total := money.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}
