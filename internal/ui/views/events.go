package views

import (
	"fmt"

	"github.com/hance08/fairshare/internal/service"
	"github.com/pterm/pterm"
)

func RenderEvents(events []*service.Event) error {
	if len(events) == 0 {
		pterm.Warning.Println("No events found")
		return nil
	}

	tableData := pterm.TableData{
		{"ID", "Date", "Event", "Expense", "Payload"},
	}
	for _, e := range events {
		var event string
		switch e.EventType {
		case service.EventExpenseCreated:
			event = pterm.Green(e.EventType)
		case service.EventExpenseVoided:
			event = pterm.Red(e.EventType)
		default:
			event = pterm.Blue(e.EventType)
		}
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", e.ID),
			e.CreatedAt.Local().Format(dateTimeLayout),
			event,
			fmt.Sprintf("%d", e.ExpenseID),
			e.Payload,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderMembers(members []int64, groupID int64) error {
	if len(members) == 0 {
		pterm.Warning.Printf("Group %d has no members\n", groupID)
		return nil
	}

	pterm.DefaultSection.Printf("Members of group %d", groupID)
	tableData := pterm.TableData{{"User"}}
	for _, id := range members {
		tableData = append(tableData, []string{fmt.Sprintf("%d", id)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
