package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type settleFlags struct {
	Confirm        bool
	ConfirmationID string
	File           string
	Yes            bool
}

type settleRunner struct {
	svc   *service.Service
	flags *settleFlags
	cmd   *cobra.Command
}

// transferFile is the JSON shape accepted by --file.
type transferFile struct {
	ConfirmationID string `json:"confirmationId"`
	Transfers      []struct {
		FromUserID int64           `json:"fromUserId"`
		ToUserID   int64           `json:"toUserId"`
		Amount     decimal.Decimal `json:"amount"`
	} `json:"transfers"`
}

func NewSettleCmd(svc *service.Service) *cobra.Command {
	flags := &settleFlags{}

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Suggest or confirm the transfers that settle the group",
		Long: `Suggest the transfers that bring every balance of the group to zero.

With --confirm the suggested transfers (or the ones read from --file) are
recorded and applied to the ledger. Confirming twice with the same
--confirmation-id applies the batch only once.

	Examples:
	fairshare settle
	fairshare settle --confirm --confirmation-id march-rent
	fairshare settle --confirm --file transfers.json --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &settleRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVar(&flags.Confirm, "confirm", false, "Record the transfers and apply them to the ledger")
	cmd.Flags().StringVar(&flags.ConfirmationID, "confirmation-id", "", "Batch ID that makes the confirmation idempotent")
	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "JSON file with the transfers to confirm")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *settleRunner) Run() error {
	ctx := r.cmd.Context()
	groupID := r.svc.Config.Defaults.Group

	req := service.ConfirmRequest{ConfirmationID: r.flags.ConfirmationID}
	if r.flags.File != "" {
		if !r.flags.Confirm {
			return fmt.Errorf("--file requires --confirm")
		}
		fromFile, err := readTransferFile(r.flags.File)
		if err != nil {
			return err
		}
		if req.ConfirmationID == "" {
			req.ConfirmationID = fromFile.ConfirmationID
		}
		req.Transfers = fromFile.Transfers
	} else {
		transfers, err := r.svc.Settlement.GetSettlements(ctx, groupID)
		if err != nil {
			return err
		}
		req.Transfers = transfers
	}

	if err := views.RenderSuggestedTransfers(req.Transfers, groupID); err != nil {
		return err
	}
	if !r.flags.Confirm || len(req.Transfers) == 0 {
		return nil
	}

	if !r.flags.Yes {
		var confirmation bool
		confirmPrompt := &survey.Confirm{
			Message: fmt.Sprintf("Confirm these %d transfers as paid?", len(req.Transfers)),
			Default: false,
		}
		if err := survey.AskOne(confirmPrompt, &confirmation, ui.IconOption()); err != nil {
			return err
		}
		if !confirmation {
			pterm.Info.Println("Confirmation cancelled")
			return nil
		}
	}

	res, err := r.svc.Settlement.ConfirmSettlements(ctx, groupID, "", req)
	if err != nil {
		return err
	}
	views.RenderConfirmResult(res)
	return nil
}

func readTransferFile(path string) (*service.ConfirmRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transfer file: %w", err)
	}

	var file transferFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid transfer file %s: %w", path, err)
	}

	req := &service.ConfirmRequest{ConfirmationID: file.ConfirmationID}
	for _, t := range file.Transfers {
		req.Transfers = append(req.Transfers, service.Transfer{
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			Amount:     t.Amount,
		})
	}
	return req, nil
}
