package expense

import (
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/spf13/cobra"
)

// inputFlags are the flags add and update share.
type inputFlags struct {
	Desc         string
	Amount       string
	Payer        int64
	Participants string
	Exact        string
	Percent      string
	Shares       string
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Desc, "desc", "d", "", "Expense description")
	cmd.Flags().StringVarP(&f.Amount, "amount", "a", "", "Total amount (e.g., 150 or 150.50)")
	cmd.Flags().Int64VarP(&f.Payer, "payer", "p", 0, "User who paid")
	cmd.Flags().StringVar(&f.Participants, "participants", "", "Comma separated user IDs sharing the expense (default: all members)")
	cmd.Flags().StringVar(&f.Exact, "exact", "", "Comma separated exact amounts, one per participant")
	cmd.Flags().StringVar(&f.Percent, "percent", "", "Comma separated percentages, one per participant")
	cmd.Flags().StringVar(&f.Shares, "shares", "", "Comma separated whole-number weights, one per participant")
}

func (f *inputFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"desc", "amount", "payer", "participants", "exact", "percent", "shares"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// toInput converts the flags. Semantic checks are left to the service so
// the CLI reports the same messages as any other caller.
func (f *inputFlags) toInput() (service.ExpenseInput, error) {
	var in service.ExpenseInput
	if f.Amount == "" || f.Payer == 0 {
		return in, fmt.Errorf("when using flags, --amount and --payer are required")
	}

	amount, err := money.Parse(f.Amount)
	if err != nil {
		return in, err
	}
	participants, err := utils.ParseIDList(f.Participants)
	if err != nil {
		return in, fmt.Errorf("invalid --participants: %w", err)
	}
	exact, err := utils.ParseAmountList(f.Exact)
	if err != nil {
		return in, fmt.Errorf("invalid --exact: %w", err)
	}
	percent, err := utils.ParseAmountList(f.Percent)
	if err != nil {
		return in, fmt.Errorf("invalid --percent: %w", err)
	}
	shares, err := utils.ParseWeightList(f.Shares)
	if err != nil {
		return in, fmt.Errorf("invalid --shares: %w", err)
	}

	return service.ExpenseInput{
		Description:        f.Desc,
		Amount:             amount,
		PayerUserID:        f.Payer,
		ParticipantUserIDs: participants,
		ExactAmounts:       exact,
		Percentages:        percent,
		Shares:             shares,
	}, nil
}
