package expense

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type voidFlags struct {
	Yes bool
}

func NewVoidCmd(svc *service.Service) *cobra.Command {
	flags := &voidFlags{}

	cmd := &cobra.Command{
		Use:     "void <expense-id>",
		Aliases: []string{"delete", "rm"},
		Short:   "Void an expense",
		Long: `Void an expense and reverse its effect on the ledger.

The expense stays in the audit log and can still be shown, but it no
longer counts towards any balance. Voiding twice does nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoid(cmd, svc, flags, args)
		},
	}
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runVoid(cmd *cobra.Command, svc *service.Service, flags *voidFlags, args []string) error {
	expenseID, err := utils.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	groupID := svc.Config.Defaults.Group

	// Get expense details first to show what will be voided
	detail, err := svc.Expense.GetExpense(ctx, groupID, expenseID)
	if err != nil {
		return err
	}
	if detail.Voided {
		pterm.Info.Printf("Expense #%d is already voided\n", expenseID)
		return nil
	}

	pterm.Warning.Printf("About to void expense #%d:\n", detail.ID)
	voidInfo := pterm.TableData{
		{"Date", detail.CreatedAt.Local().Format("2006-01-02")},
		{"Description", detail.Description},
		{"Payer", fmt.Sprintf("user %d", detail.PayerUserID)},
		{"Amount", money.Format(detail.Amount)},
		{"Splits", fmt.Sprint(len(detail.Splits))},
	}
	if err := pterm.DefaultTable.WithData(voidInfo).Render(); err != nil {
		return err
	}

	if !flags.Yes {
		var confirmation bool
		confirmPrompt := &survey.Confirm{
			Message: "Do you want to void this expense?",
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirmation, ui.IconOption()); err != nil {
			return err
		}
		if !confirmation {
			pterm.Info.Println("Void cancelled")
			return nil
		}
	}

	if err := svc.Expense.VoidExpense(ctx, groupID, expenseID); err != nil {
		return err
	}

	pterm.Success.Printf("Expense #%d voided\n", expenseID)
	return nil
}
