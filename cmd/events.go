package cmd

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/spf13/cobra"
)

type eventsRunner struct {
	svc   *service.Service
	flags *utils.ListFlags
	cmd   *cobra.Command
}

func NewEventsCmd(svc *service.Service) *cobra.Command {
	flags := &utils.ListFlags{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the audit log of expense changes",
		Long:  `Show the ExpenseCreated, ExpenseUpdated and ExpenseVoided events of the group, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &eventsRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	flags.Bind(cmd, 50)

	return cmd
}

func (r *eventsRunner) Run() error {
	opts, err := r.flags.Options()
	if err != nil {
		return err
	}
	events, err := r.svc.Expense.ListEvents(r.cmd.Context(), r.svc.Config.Defaults.Group, opts)
	if err != nil {
		return err
	}
	return views.RenderEvents(events)
}
