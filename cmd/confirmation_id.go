package cmd

import (
	"fmt"

	"github.com/hance08/fairshare/internal/service"
	"github.com/spf13/cobra"
)

func NewConfirmationIDCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "confirmation-id",
		Short: "Print a fresh confirmation ID for settle --confirm",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), svc.Settlement.NewConfirmationID())
		},
	}
}
