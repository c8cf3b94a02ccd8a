package expense

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/spf13/cobra"
)

type listRunner struct {
	svc   *service.Service
	flags *utils.ListFlags
	cmd   *cobra.Command
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &utils.ListFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List active expenses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	flags.Bind(cmd, 20)

	return cmd
}

func (r *listRunner) Run() error {
	opts, err := r.flags.Options()
	if err != nil {
		return err
	}

	groupID := r.svc.Config.Defaults.Group
	expenses, err := r.svc.Expense.ListExpenses(r.cmd.Context(), groupID, opts)
	if err != nil {
		return err
	}
	return views.RenderExpenseList(expenses, groupID)
}
