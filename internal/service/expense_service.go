package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/split"
	"github.com/hance08/fairshare/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ExpenseService struct {
	repo    store.Repository
	members Membership
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewExpenseService(repo store.Repository, members Membership, log logrus.FieldLogger) *ExpenseService {
	return &ExpenseService{repo: repo, members: members, log: log, now: time.Now}
}

// expensePlan is a validated request: everything needed to write an expense.
type expensePlan struct {
	description string
	total       decimal.Decimal
	totalCents  int64
	payer       int64
	shares      []split.Share
}

func (es *ExpenseService) plan(ctx context.Context, groupID int64, in ExpenseInput, defaults func() ([]int64, error)) (*expensePlan, error) {
	total := money.Normalize(in.Amount)
	if total.LessThan(money.Cent) {
		return nil, invalid("amount", "Amount must be at least 0.01")
	}
	totalCents, err := money.CheckedCents(total)
	if err != nil {
		return nil, invalid("amount", "Amount is too large")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid("description", "Description is required")
	}

	participants := in.ParticipantUserIDs
	if len(participants) == 0 {
		ids, err := defaults()
		if err != nil {
			return nil, err
		}
		participants = ids
	}
	if err := split.Unique(participants); err != nil {
		return nil, fromSplit(err)
	}

	if err := requireMember(ctx, es.members, groupID, in.PayerUserID); err != nil {
		return nil, err
	}
	for _, id := range participants {
		if err := requireMember(ctx, es.members, groupID, id); err != nil {
			return nil, err
		}
	}

	shares, err := split.Compute(split.Request{
		Total:        total,
		Payer:        in.PayerUserID,
		Participants: participants,
		ExactAmounts: in.ExactAmounts,
		Percentages:  in.Percentages,
		Weights:      in.Shares,
	})
	if err != nil {
		return nil, fromSplit(err)
	}
	for _, sh := range shares {
		if _, err := money.CheckedCents(sh.Amount); err != nil {
			return nil, invalid("split", "Share for user %d is too large", sh.UserID)
		}
	}

	return &expensePlan{
		description: description,
		total:       total,
		totalCents:  totalCents,
		payer:       in.PayerUserID,
		shares:      shares,
	}, nil
}

// CreateExpense records a new expense and its ledger effect. A non-blank
// idempotencyKey seen before in the group returns the stored expense as a
// replay and writes nothing.
func (es *ExpenseService) CreateExpense(ctx context.Context, groupID int64, idempotencyKey string, in ExpenseInput) (*CreateResult, error) {
	var key string
	if strings.TrimSpace(idempotencyKey) != "" {
		key = idempotencyKey
	}

	var result *CreateResult
	err := es.repo.ExecTx(ctx, func(tx store.Repository) error {
		if key != "" {
			existing, err := tx.GetExpenseByIdempotencyKey(ctx, groupID, key)
			switch {
			case err == nil:
				exp, err := loadExpense(ctx, tx, existing)
				if err != nil {
					return err
				}
				result = &CreateResult{Expense: exp, Outcome: Replayed}
				return nil
			case !errors.Is(err, store.ErrRecordNotFound):
				return err
			}
		}

		p, err := es.plan(ctx, groupID, in, func() ([]int64, error) {
			return es.members.ListMembers(ctx, groupID)
		})
		if err != nil {
			return err
		}

		row := &store.Expense{
			GroupID:        groupID,
			PayerUserID:    p.payer,
			Description:    p.description,
			AmountCents:    p.totalCents,
			CreatedAt:      es.timestamp(),
			IdempotencyKey: key,
		}
		id, err := tx.CreateExpense(ctx, row)
		if err != nil {
			return err
		}
		row.ID = id

		if err := tx.InsertParticipants(ctx, id, toParticipants(p.shares)); err != nil {
			return err
		}

		if err := tx.AddToLedger(ctx, groupID, p.payer, row.AmountCents); err != nil {
			return err
		}
		for _, s := range p.shares {
			if err := tx.AddToLedger(ctx, groupID, s.UserID, -money.ToCents(s.Amount)); err != nil {
				return err
			}
		}

		if err := es.appendEvent(ctx, tx, groupID, id, EventExpenseCreated, amountPayload{
			ExpenseID: id,
			Amount:    money.Format(p.total),
		}); err != nil {
			return err
		}

		result = &CreateResult{Expense: toExpense(row, p.shares), Outcome: Created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"group_id": groupID, "expense_id": result.Expense.ID}
	if result.Outcome == Replayed {
		es.log.WithFields(fields).Debug("expense creation replayed")
	} else {
		es.log.WithFields(fields).WithField("amount", money.Format(result.Expense.Amount)).Info("expense created")
	}
	return result, nil
}

// UpdateExpense recomputes the splits and applies only the difference to
// the ledger. The expense row is locked for the whole transaction.
func (es *ExpenseService) UpdateExpense(ctx context.Context, groupID, expenseID int64, in ExpenseInput) (*Expense, error) {
	var updated *Expense
	err := es.repo.ExecTx(ctx, func(tx store.Repository) error {
		if err := tx.LockExpense(ctx, expenseID); err != nil {
			return notFound(err, expenseID)
		}
		row, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return notFound(err, expenseID)
		}
		if row.GroupID != groupID {
			return &ConflictError{Message: "Expense does not belong to group"}
		}
		if row.Voided {
			return &ConflictError{Message: "Expense is voided"}
		}

		oldParts, err := tx.GetParticipants(ctx, expenseID)
		if err != nil {
			return err
		}
		oldShares := make(map[int64]int64, len(oldParts))
		oldIDs := make([]int64, 0, len(oldParts))
		for _, op := range oldParts {
			oldShares[op.UserID] = op.ShareCents
			oldIDs = append(oldIDs, op.UserID)
		}

		p, err := es.plan(ctx, groupID, in, func() ([]int64, error) { return oldIDs, nil })
		if err != nil {
			return err
		}
		newTotal := p.totalCents

		if p.payer == row.PayerUserID {
			if err := tx.AddToLedger(ctx, groupID, p.payer, newTotal-row.AmountCents); err != nil {
				return err
			}
		} else {
			if err := tx.AddToLedger(ctx, groupID, row.PayerUserID, -row.AmountCents); err != nil {
				return err
			}
			if err := tx.AddToLedger(ctx, groupID, p.payer, newTotal); err != nil {
				return err
			}
		}

		newShares := make(map[int64]int64, len(p.shares))
		for _, s := range p.shares {
			newShares[s.UserID] = money.ToCents(s.Amount)
		}
		for _, uid := range unionIDs(oldShares, newShares) {
			delta := oldShares[uid] - newShares[uid]
			if delta == 0 {
				continue
			}
			if err := tx.AddToLedger(ctx, groupID, uid, delta); err != nil {
				return err
			}
		}

		if err := tx.DeleteParticipants(ctx, expenseID); err != nil {
			return err
		}
		if err := tx.InsertParticipants(ctx, expenseID, toParticipants(p.shares)); err != nil {
			return err
		}
		if err := tx.UpdateExpense(ctx, expenseID, p.payer, p.description, newTotal); err != nil {
			return err
		}

		payload := updatePayload{}
		payload.Before.Amount = money.FormatCents(row.AmountCents)
		payload.After.Amount = money.Format(p.total)
		if err := es.appendEvent(ctx, tx, groupID, expenseID, EventExpenseUpdated, payload); err != nil {
			return err
		}

		row.PayerUserID = p.payer
		row.Description = p.description
		row.AmountCents = newTotal
		updated = toExpense(row, p.shares)
		return nil
	})
	if err != nil {
		return nil, err
	}

	es.log.WithFields(logrus.Fields{
		"group_id":   groupID,
		"expense_id": expenseID,
		"amount":     money.Format(updated.Amount),
	}).Info("expense updated")
	return updated, nil
}

// VoidExpense reverses the stored ledger effect of an expense. Voiding an
// already voided expense does nothing.
func (es *ExpenseService) VoidExpense(ctx context.Context, groupID, expenseID int64) error {
	voided := false
	err := es.repo.ExecTx(ctx, func(tx store.Repository) error {
		row, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return notFound(err, expenseID)
		}
		if row.GroupID != groupID {
			return &ConflictError{Message: "Expense does not belong to group"}
		}
		if row.Voided {
			return nil
		}

		parts, err := tx.GetParticipants(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := tx.AddToLedger(ctx, groupID, row.PayerUserID, -row.AmountCents); err != nil {
			return err
		}
		for _, part := range parts {
			if err := tx.AddToLedger(ctx, groupID, part.UserID, part.ShareCents); err != nil {
				return err
			}
		}

		if err := tx.MarkExpenseVoided(ctx, expenseID); err != nil {
			return err
		}
		if err := es.appendEvent(ctx, tx, groupID, expenseID, EventExpenseVoided, amountPayload{
			ExpenseID: expenseID,
			Amount:    money.FormatCents(row.AmountCents),
		}); err != nil {
			return err
		}
		voided = true
		return nil
	})
	if err != nil {
		return err
	}

	fields := logrus.Fields{"group_id": groupID, "expense_id": expenseID}
	if voided {
		es.log.WithFields(fields).Info("expense voided")
	} else {
		es.log.WithFields(fields).Debug("expense already voided")
	}
	return nil
}

// GetExpense returns an expense of the group, voided or not.
func (es *ExpenseService) GetExpense(ctx context.Context, groupID, expenseID int64) (*Expense, error) {
	row, err := es.repo.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, notFound(err, expenseID)
	}
	if row.GroupID != groupID {
		return nil, &NotFoundError{Resource: "expense", ID: expenseID}
	}
	return loadExpense(ctx, es.repo, row)
}

// ListExpenses returns the group's active expenses, newest first.
func (es *ExpenseService) ListExpenses(ctx context.Context, groupID int64, opts ListOptions) ([]*Expense, error) {
	rows, err := es.repo.ListExpenses(ctx, groupID, toFilter(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	out := make([]*Expense, 0, len(rows))
	for _, row := range rows {
		exp, err := loadExpense(ctx, es.repo, row)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}

func (es *ExpenseService) ListEvents(ctx context.Context, groupID int64, opts ListOptions) ([]*Event, error) {
	rows, err := es.repo.ListEvents(ctx, groupID, toFilter(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := make([]*Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, &Event{
			ID:        r.ID,
			GroupID:   r.GroupID,
			ExpenseID: r.ExpenseID,
			EventType: r.EventType,
			Payload:   r.Payload,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// AmountOwedHistorical is what from owes to across every expense to paid,
// voided ones included, less what from already transferred to to.
func (es *ExpenseService) AmountOwedHistorical(ctx context.Context, groupID, fromUserID, toUserID int64) (decimal.Decimal, error) {
	if err := requireMember(ctx, es.members, groupID, fromUserID); err != nil {
		return decimal.Zero, err
	}
	if err := requireMember(ctx, es.members, groupID, toUserID); err != nil {
		return decimal.Zero, err
	}

	obligations, err := es.repo.SumSharesOwedTo(ctx, groupID, toUserID, fromUserID)
	if err != nil {
		return decimal.Zero, err
	}
	payments, err := es.repo.SumConfirmedTransfers(ctx, groupID, fromUserID, toUserID)
	if err != nil {
		return decimal.Zero, err
	}
	return money.FromCents(obligations - payments), nil
}

// GetLedgerExplanation itemizes each member's net balance, most recent
// contribution first. Voided expenses contribute nothing.
func (es *ExpenseService) GetLedgerExplanation(ctx context.Context, groupID int64) ([]*MemberExplanation, error) {
	members, err := es.members.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := es.repo.ListExpenses(ctx, groupID, store.ListFilter{})
	if err != nil {
		return nil, err
	}
	shares, err := es.repo.ListActiveShares(ctx, groupID)
	if err != nil {
		return nil, err
	}
	transfers, err := es.repo.ListConfirmedTransfers(ctx, groupID, "", store.ListFilter{})
	if err != nil {
		return nil, err
	}
	ledger, err := es.repo.ListLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	balances := make(map[int64]int64, len(ledger))
	for _, e := range ledger {
		balances[e.UserID] = e.NetBalanceCents
	}

	byUser := make(map[int64][]Contribution, len(members))
	for _, e := range expenses {
		byUser[e.PayerUserID] = append(byUser[e.PayerUserID], Contribution{
			Type:        ContributionExpensePaid,
			Amount:      money.FromCents(e.AmountCents),
			Description: e.Description,
			Timestamp:   e.CreatedAt,
			ReferenceID: e.ID,
		})
	}
	for _, s := range shares {
		byUser[s.UserID] = append(byUser[s.UserID], Contribution{
			Type:        ContributionExpenseShare,
			Amount:      money.FromCents(-s.ShareCents),
			Description: s.Description,
			Timestamp:   s.CreatedAt,
			ReferenceID: s.ExpenseID,
		})
	}
	for _, t := range transfers {
		byUser[t.FromUserID] = append(byUser[t.FromUserID], Contribution{
			Type:        ContributionTransferSent,
			Amount:      money.FromCents(t.AmountCents),
			Description: fmt.Sprintf("Transfer to user %d", t.ToUserID),
			Timestamp:   t.CreatedAt,
			ReferenceID: t.ID,
		})
		byUser[t.ToUserID] = append(byUser[t.ToUserID], Contribution{
			Type:        ContributionTransferReceived,
			Amount:      money.FromCents(-t.AmountCents),
			Description: fmt.Sprintf("Transfer from user %d", t.FromUserID),
			Timestamp:   t.CreatedAt,
			ReferenceID: t.ID,
		})
	}

	out := make([]*MemberExplanation, 0, len(members))
	for _, uid := range members {
		contributions := byUser[uid]
		sort.SliceStable(contributions, func(i, j int) bool {
			return contributions[i].Timestamp.After(contributions[j].Timestamp)
		})
		out = append(out, &MemberExplanation{
			UserID:        uid,
			NetBalance:    money.FromCents(balances[uid]),
			Contributions: contributions,
		})
	}
	return out, nil
}

type amountPayload struct {
	ExpenseID int64  `json:"expenseId"`
	Amount    string `json:"amount"`
}

type updatePayload struct {
	Before struct {
		Amount string `json:"amount"`
	} `json:"before"`
	After struct {
		Amount string `json:"amount"`
	} `json:"after"`
}

func (es *ExpenseService) appendEvent(ctx context.Context, tx store.Repository, groupID, expenseID int64, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	_, err = tx.InsertEvent(ctx, &store.ExpenseEvent{
		GroupID:   groupID,
		ExpenseID: expenseID,
		EventType: eventType,
		Payload:   string(raw),
		CreatedAt: es.timestamp(),
	})
	return err
}

// timestamp is truncated to the precision the store keeps.
func (es *ExpenseService) timestamp() time.Time {
	return es.now().UTC().Truncate(time.Millisecond)
}

func loadExpense(ctx context.Context, repo store.Repository, row *store.Expense) (*Expense, error) {
	parts, err := repo.GetParticipants(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	shares := make([]split.Share, 0, len(parts))
	for _, p := range parts {
		shares = append(shares, split.Share{UserID: p.UserID, Amount: money.FromCents(p.ShareCents)})
	}
	return toExpense(row, shares), nil
}

func toExpense(row *store.Expense, shares []split.Share) *Expense {
	splits := make([]Split, 0, len(shares))
	for _, s := range shares {
		splits = append(splits, Split{UserID: s.UserID, Amount: s.Amount})
	}
	return &Expense{
		ID:          row.ID,
		GroupID:     row.GroupID,
		Description: row.Description,
		Amount:      money.FromCents(row.AmountCents),
		PayerUserID: row.PayerUserID,
		CreatedAt:   row.CreatedAt,
		Voided:      row.Voided,
		Splits:      splits,
	}
}

func toParticipants(shares []split.Share) []store.Participant {
	out := make([]store.Participant, 0, len(shares))
	for _, s := range shares {
		out = append(out, store.Participant{UserID: s.UserID, ShareCents: money.ToCents(s.Amount)})
	}
	return out
}

func unionIDs(a, b map[int64]int64) []int64 {
	ids := make([]int64, 0, len(a)+len(b))
	for id := range a {
		ids = append(ids, id)
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func notFound(err error, expenseID int64) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return &NotFoundError{Resource: "expense", ID: expenseID}
	}
	return err
}

func toFilter(opts ListOptions) store.ListFilter {
	return store.ListFilter{From: opts.From, To: opts.To, Limit: opts.Limit, Offset: opts.Offset}
}
