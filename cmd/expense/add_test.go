package expense

import (
	"testing"

	"github.com/hance08/fairshare/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPromptDefaultsFor(t *testing.T) {
	members := []int64{4, 7, 9}

	tests := []struct {
		name    string
		current *service.Expense
		want    promptDefaults
	}{
		{
			name: "new expense",
			want: promptDefaults{payer: 4},
		},
		{
			name: "update keeps stored values",
			current: &service.Expense{
				Description: "Groceries",
				Amount:      decimal.RequireFromString("42.5"),
				PayerUserID: 7,
				Splits: []service.Split{
					{UserID: 7, Amount: decimal.RequireFromString("21.25")},
					{UserID: 9, Amount: decimal.RequireFromString("21.25")},
				},
			},
			want: promptDefaults{
				description:  "Groceries",
				amount:       "42.50",
				payer:        7,
				participants: []int64{7, 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, promptDefaultsFor(tt.current, members))
		})
	}
}
