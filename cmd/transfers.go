package cmd

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/spf13/cobra"
)

type transfersFlags struct {
	utils.ListFlags
	ConfirmationID string
}

type transfersRunner struct {
	svc   *service.Service
	flags *transfersFlags
	cmd   *cobra.Command
}

func NewTransfersCmd(svc *service.Service) *cobra.Command {
	flags := &transfersFlags{}

	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "List confirmed settlement transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &transfersRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	flags.Bind(cmd, 50)
	cmd.Flags().StringVar(&flags.ConfirmationID, "confirmation-id", "", "Only show the transfers of this batch")

	return cmd
}

func (r *transfersRunner) Run() error {
	opts, err := r.flags.Options()
	if err != nil {
		return err
	}
	transfers, err := r.svc.Settlement.ListConfirmedTransfers(r.cmd.Context(), r.svc.Config.Defaults.Group, r.flags.ConfirmationID, opts)
	if err != nil {
		return err
	}
	return views.RenderConfirmedTransfers(transfers)
}
