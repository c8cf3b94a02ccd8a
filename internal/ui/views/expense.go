package views

import (
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui"
	"github.com/pterm/pterm"
)

const dateTimeLayout = "2006-01-02 15:04"

func RenderExpenseList(expenses []*service.Expense, groupID int64) error {
	if len(expenses) == 0 {
		pterm.Warning.Printf("No expenses found in group %d\n", groupID)
		return nil
	}

	pterm.DefaultSection.Printf("Expenses of group %d", groupID)

	tableData := pterm.TableData{
		{"ID", "Date", "Description", "Payer", "Amount", "Participants"},
	}
	for _, e := range expenses {
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", e.ID),
			e.CreatedAt.Local().Format(dateTimeLayout),
			e.Description,
			fmt.Sprintf("user %d", e.PayerUserID),
			money.Format(e.Amount),
			fmt.Sprintf("%d", len(e.Splits)),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d expenses\n", len(expenses))
	return nil
}

func RenderExpenseDetail(e *service.Expense) error {
	status := pterm.Green("Active")
	if e.Voided {
		status = pterm.Red("Voided")
	}

	pterm.Println()
	ui.PrintL2Title("Expense Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", fmt.Sprintf("%d", e.ID)},
		{"Group", fmt.Sprintf("%d", e.GroupID)},
		{"Date", e.CreatedAt.Local().Format(dateTimeLayout)},
		{"Description", e.Description},
		{"Payer", fmt.Sprintf("user %d", e.PayerUserID)},
		{"Amount", money.Format(e.Amount)},
		{"Status", status},
	}
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Splits")
	splitsData := pterm.TableData{
		{"User", "Share", "Role"},
	}
	for _, s := range e.Splits {
		role := "participant"
		if s.UserID == e.PayerUserID {
			role = "payer"
		}
		splitsData = append(splitsData, []string{
			fmt.Sprintf("user %d", s.UserID),
			money.Format(s.Amount),
			role,
		})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(splitsData).
		Render()
}
