package expense

import (
	"context"
	"fmt"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/prompts"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type addFlags struct {
	inputFlags
	IdempotencyKey string
}

type addRunner struct {
	svc   *service.Service
	flags *addFlags
	cmd   *cobra.Command
}

func NewAddCmd(svc *service.Service) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a shared expense",
		Long: `Add an expense paid by one member and shared by others.

Without a split flag the amount is split equally among the participants
and the payer. Only one of --exact, --percent and --shares may be used.
You can use flags for quick entry or interactive mode for guided input.

	Examples:
	# Interactive mode
	fairshare expense add

	# Equal split among all members
	fairshare expense add --desc "Dinner" --amount 90 --payer 1

	# Weighted split, retried safely with the same key
	fairshare expense add -d "Cabin" -a 300 -p 2 --participants 1,2,3 --shares 2,1,1 --idempotency-key cabin-2025`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &addRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&flags.IdempotencyKey, "idempotency-key", "k", "", "Key that makes retries of this command create the expense once")

	return cmd
}

func (r *addRunner) Run() error {
	ctx := r.cmd.Context()
	groupID := r.svc.Config.Defaults.Group

	var in service.ExpenseInput
	var err error
	if r.flags.changed(r.cmd) {
		in, err = r.flags.toInput()
	} else {
		in, err = interactiveInput(ctx, r.svc, groupID, nil)
	}
	if err != nil {
		return err
	}

	res, err := r.svc.Expense.CreateExpense(ctx, groupID, r.flags.IdempotencyKey, in)
	if err != nil {
		return err
	}

	if res.Outcome == service.Replayed {
		pterm.Warning.Printf("Expense with this idempotency key already exists (ID: %d), nothing changed\n", res.Expense.ID)
	} else {
		pterm.Success.Printf("Expense created successfully! (ID: %d)\n", res.Expense.ID)
	}
	return views.RenderExpenseDetail(res.Expense)
}

// interactiveInput walks the user through an expense. When current is set
// its values are offered as defaults.
func interactiveInput(ctx context.Context, svc *service.Service, groupID int64, current *service.Expense) (service.ExpenseInput, error) {
	var in service.ExpenseInput

	members, err := svc.Member.ListMembers(ctx, groupID)
	if err != nil {
		return in, fmt.Errorf("failed to load members: %w", err)
	}
	if len(members) == 0 {
		return in, fmt.Errorf("group %d has no members, add some with 'fairshare member add'", groupID)
	}

	defaults := promptDefaultsFor(current, members)

	// Step 1: Description
	in.Description, err = prompts.PromptDescription("What was it for?", defaults.description, true)
	if err != nil {
		return in, err
	}

	// Step 2: Amount
	amountStr, err := prompts.PromptAmount("Amount:", "Enter the amount, no need currency symbol (e.g. 150 or 150.50)", defaults.amount)
	if err != nil {
		return in, err
	}
	in.Amount, _ = money.Parse(amountStr)

	// Step 3: Payer and participants
	in.PayerUserID, err = prompts.PromptPayer(members, defaults.payer)
	if err != nil {
		return in, err
	}
	in.ParticipantUserIDs, err = prompts.PromptParticipants(members, defaults.participants)
	if err != nil {
		return in, err
	}

	// Step 4: Split mode
	if err := prompts.PromptSplit(&in); err != nil {
		return in, err
	}
	return in, nil
}

// promptDefaults pre-fills the interactive form; on update it mirrors the
// stored expense.
type promptDefaults struct {
	description  string
	amount       string
	payer        int64
	participants []int64
}

func promptDefaultsFor(current *service.Expense, members []int64) promptDefaults {
	if current == nil {
		return promptDefaults{payer: members[0]}
	}
	d := promptDefaults{
		description: current.Description,
		amount:      money.Format(current.Amount),
		payer:       current.PayerUserID,
	}
	for _, s := range current.Splits {
		d.participants = append(d.participants, s.UserID)
	}
	return d
}
