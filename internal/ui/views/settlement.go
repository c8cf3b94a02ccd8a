package views

import (
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/pterm/pterm"
)

func RenderSuggestedTransfers(transfers []service.Transfer, groupID int64) error {
	if len(transfers) == 0 {
		pterm.Success.Printf("Group %d is settled up\n", groupID)
		return nil
	}

	pterm.DefaultSection.Printf("Suggested transfers for group %d", groupID)

	tableData := pterm.TableData{
		{"#", "From", "To", "Amount"},
	}
	for i, t := range transfers {
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("user %d", t.FromUserID),
			fmt.Sprintf("user %d", t.ToUserID),
			money.Format(t.Amount),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderConfirmResult(res *service.ConfirmResult) {
	switch {
	case res.Applied == 0:
		pterm.Info.Println("Nothing to confirm")
	case res.Outcome == service.Replayed:
		pterm.Warning.Printf("Confirmation %s was already recorded (%d transfers), nothing applied\n",
			res.ConfirmationID, res.Applied)
	default:
		pterm.Success.Printf("Confirmed %d transfers (confirmation ID: %s)\n", res.Applied, res.ConfirmationID)
	}
}

func RenderConfirmedTransfers(transfers []*service.ConfirmedTransfer) error {
	if len(transfers) == 0 {
		pterm.Warning.Println("No confirmed transfers found")
		return nil
	}

	tableData := pterm.TableData{
		{"ID", "Date", "From", "To", "Amount", "Confirmation"},
	}
	for _, t := range transfers {
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Local().Format(dateTimeLayout),
			fmt.Sprintf("user %d", t.FromUserID),
			fmt.Sprintf("user %d", t.ToUserID),
			money.Format(t.Amount),
			t.ConfirmationID,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transfers\n", len(transfers))
	return nil
}
