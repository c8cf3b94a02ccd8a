package views

import (
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

// colorAmount shows what a member is owed in green and what they owe in red.
func colorAmount(d decimal.Decimal) string {
	s := money.Format(d)
	switch d.Sign() {
	case 1:
		return pterm.Green(s)
	case -1:
		return pterm.Red(s)
	default:
		return s
	}
}

func RenderLedger(balances []service.Balance, groupID int64) error {
	if len(balances) == 0 {
		pterm.Warning.Printf("Ledger of group %d is empty\n", groupID)
		return nil
	}

	pterm.DefaultSection.Printf("Ledger of group %d", groupID)

	tableData := pterm.TableData{
		{"User", "Net Balance"},
	}
	for _, b := range balances {
		tableData = append(tableData, []string{
			fmt.Sprintf("user %d", b.UserID),
			colorAmount(b.NetBalance),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(tableData).Render()
}

func RenderExplanation(explanations []*service.MemberExplanation) error {
	if len(explanations) == 0 {
		pterm.Warning.Println("No members to explain")
		return nil
	}

	ui.PrintL1Title("Ledger explanation")
	for _, ex := range explanations {
		pterm.Println()
		ui.PrintL2Title("User %d  (net %s)", ex.UserID, money.Format(ex.NetBalance))

		if len(ex.Contributions) == 0 {
			pterm.Println(pterm.Gray("  no activity"))
			continue
		}

		tableData := pterm.TableData{
			{"Date", "Type", "Description", "Amount", "Ref"},
		}
		for _, c := range ex.Contributions {
			tableData = append(tableData, []string{
				c.Timestamp.Local().Format(dateTimeLayout),
				string(c.Type),
				c.Description,
				colorAmount(c.Amount),
				fmt.Sprintf("%d", c.ReferenceID),
			})
		}
		if err := pterm.DefaultTable.
			WithHasHeader().
			WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
			WithData(tableData).
			Render(); err != nil {
			return err
		}
	}
	return nil
}
