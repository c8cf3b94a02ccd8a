// Package utils parses command line input into service values.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hance08/fairshare/internal/money"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID: %s", s)
	}
	return id, nil
}

// splitList accepts "1,2,3" as well as "1, 2 ,3". An empty string is an
// empty list.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func ParseIDList(s string) ([]int64, error) {
	parts := splitList(s)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func ParseAmountList(s string) ([]decimal.Decimal, error) {
	parts := splitList(s)
	out := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := money.Parse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseWeightList parses whole-number split weights. Sign checks are left
// to the split calculator.
func ParseWeightList(s string) ([]int64, error) {
	parts := splitList(s)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shares value: %s", p)
		}
		out = append(out, w)
	}
	return out, nil
}

// ParseDate reads a local calendar date. With endOfDay set the result is
// the last millisecond of that day, so the date is included in a window.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %s", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, nil
}
