package expense

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/spf13/cobra"
)

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show <expense-id>",
		Short: "Show an expense and its splits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expenseID, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			exp, err := svc.Expense.GetExpense(cmd.Context(), svc.Config.Defaults.Group, expenseID)
			if err != nil {
				return err
			}
			return views.RenderExpenseDetail(exp)
		},
	}
}
