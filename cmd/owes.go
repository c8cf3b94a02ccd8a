package cmd

import (
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type owesFlags struct {
	Historical bool
}

type owesRunner struct {
	svc   *service.Service
	flags *owesFlags
	cmd   *cobra.Command
}

func NewOwesCmd(svc *service.Service) *cobra.Command {
	flags := &owesFlags{}

	cmd := &cobra.Command{
		Use:   "owes <from-user> <to-user>",
		Short: "Show how much one member owes another",
		Long: `Show how much <from-user> owes <to-user>.

By default the answer comes from the currently suggested settlement. With
--historical it is every share of an expense paid by <to-user>, voided
ones included, minus what <from-user> already transferred.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &owesRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args)
		},
	}

	cmd.Flags().BoolVar(&flags.Historical, "historical", false, "Sum shares and transfers instead of using the settlement")

	return cmd
}

func (r *owesRunner) Run(args []string) error {
	from, err := utils.ParseID(args[0])
	if err != nil {
		return err
	}
	to, err := utils.ParseID(args[1])
	if err != nil {
		return err
	}

	ctx := r.cmd.Context()
	groupID := r.svc.Config.Defaults.Group

	owed := money.Zero
	if r.flags.Historical {
		owed, err = r.svc.Expense.AmountOwedHistorical(ctx, groupID, from, to)
	} else {
		owed, err = r.svc.Settlement.AmountOwed(ctx, groupID, from, to)
	}
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("User %d owes user %d: %s", from, to, money.Format(owed))
	if owed.IsPositive() {
		pterm.Info.Println(msg)
	} else {
		pterm.Success.Println(msg)
	}
	return nil
}
