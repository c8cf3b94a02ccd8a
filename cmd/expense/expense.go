package expense

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/spf13/cobra"
)

func NewExpenseCmd(svc *service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"exp"},
		Short:   "Manage shared expenses",
		Long:    "Manage shared expenses: add, update, void, show and list them.",
	}

	cmd.AddCommand(NewAddCmd(svc))
	cmd.AddCommand(NewUpdateCmd(svc))
	cmd.AddCommand(NewVoidCmd(svc))
	cmd.AddCommand(NewShowCmd(svc))
	cmd.AddCommand(NewListCmd(svc))

	return cmd
}
