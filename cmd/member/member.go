package member

import (
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/hance08/fairshare/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewMemberCmd(svc *service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage group members",
		Long:  "Manage group members: add users to a group or list who belongs to it.",
	}

	cmd.AddCommand(newAddCmd(svc))
	cmd.AddCommand(newListCmd(svc))

	return cmd
}

func newAddCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "add <user-id>...",
		Short: "Add users to the group",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := utils.ParseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			groupID := svc.Config.Defaults.Group
			added, err := svc.Member.AddMembers(cmd.Context(), groupID, ids...)
			if err != nil {
				return err
			}

			if len(added) == 0 {
				pterm.Info.Printf("All users are already members of group %d\n", groupID)
				return nil
			}
			pterm.Success.Printf("Added %d members to group %d: %v\n", len(added), groupID, added)
			return nil
		},
	}
}

func newListCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the members of the group",
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID := svc.Config.Defaults.Group
			members, err := svc.Member.ListMembers(cmd.Context(), groupID)
			if err != nil {
				return err
			}
			return views.RenderMembers(members, groupID)
		},
	}
}
