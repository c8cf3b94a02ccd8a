package expense

import (
	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type updateRunner struct {
	svc   *service.Service
	flags *inputFlags
	cmd   *cobra.Command
}

func NewUpdateCmd(svc *service.Service) *cobra.Command {
	flags := &inputFlags{}

	cmd := &cobra.Command{
		Use:     "update <expense-id>",
		Aliases: []string{"edit"},
		Short:   "Change an expense and rebalance the ledger",
		Long: `Change the description, amount, payer or split of an expense.

Only the difference to the previous version is applied to the ledger.
Without --participants the current participants are kept. Without any
flag the expense is edited interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &updateRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args)
		},
	}
	flags.bind(cmd)

	return cmd
}

func (r *updateRunner) Run(args []string) error {
	expenseID, err := utils.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := r.cmd.Context()
	groupID := r.svc.Config.Defaults.Group

	current, err := r.svc.Expense.GetExpense(ctx, groupID, expenseID)
	if err != nil {
		return err
	}

	var in service.ExpenseInput
	if r.flags.changed(r.cmd) {
		// unset flags keep the stored values
		if r.flags.Amount == "" {
			r.flags.Amount = current.Amount.StringFixed(2)
		}
		if r.flags.Payer == 0 {
			r.flags.Payer = current.PayerUserID
		}
		if r.flags.Desc == "" {
			r.flags.Desc = current.Description
		}
		in, err = r.flags.toInput()
	} else {
		in, err = interactiveInput(ctx, r.svc, groupID, current)
	}
	if err != nil {
		return err
	}

	updated, err := r.svc.Expense.UpdateExpense(ctx, groupID, expenseID, in)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Expense #%d updated (%s -> %s)\n", expenseID,
		money.Format(current.Amount), money.Format(updated.Amount))
	return views.RenderExpenseDetail(updated)
}
