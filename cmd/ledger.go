package cmd

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/spf13/cobra"
)

type ledgerFlags struct {
	Explain bool
}

type ledgerRunner struct {
	svc   *service.Service
	flags *ledgerFlags
	cmd   *cobra.Command
}

func NewLedgerCmd(svc *service.Service) *cobra.Command {
	flags := &ledgerFlags{}

	cmd := &cobra.Command{
		Use:     "ledger",
		Aliases: []string{"balances"},
		Short:   "Show the net balance of every member",
		Long: `Show the net balance of every member of the group.

A positive balance means the member is owed money, a negative one means
the member owes money. With --explain every balance is broken down into
the expenses and transfers that produced it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ledgerRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVarP(&flags.Explain, "explain", "e", false, "Itemize each balance")

	return cmd
}

func (r *ledgerRunner) Run() error {
	ctx := r.cmd.Context()
	groupID := r.svc.Config.Defaults.Group

	if r.flags.Explain {
		explanations, err := r.svc.Expense.GetLedgerExplanation(ctx, groupID)
		if err != nil {
			return err
		}
		return views.RenderExplanation(explanations)
	}

	balances, err := r.svc.Settlement.GetLedger(ctx, groupID)
	if err != nil {
		return err
	}
	return views.RenderLedger(balances, groupID)
}
