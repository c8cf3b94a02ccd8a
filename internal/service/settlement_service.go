package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/settlement"
	"github.com/hance08/fairshare/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type SettlementService struct {
	repo    store.Repository
	members Membership
	log     logrus.FieldLogger
	now     func() time.Time
	newID   func() string
}

func NewSettlementService(repo store.Repository, members Membership, log logrus.FieldLogger) *SettlementService {
	return &SettlementService{
		repo:    repo,
		members: members,
		log:     log,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// GetLedger returns every ledger entry of the group ordered by user id.
func (ss *SettlementService) GetLedger(ctx context.Context, groupID int64) ([]Balance, error) {
	entries, err := ss.repo.ListLedger(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	out := make([]Balance, 0, len(entries))
	for _, e := range entries {
		out = append(out, Balance{UserID: e.UserID, NetBalance: money.FromCents(e.NetBalanceCents)})
	}
	return out, nil
}

// GetSettlements suggests transfers that would zero every balance.
func (ss *SettlementService) GetSettlements(ctx context.Context, groupID int64) ([]Transfer, error) {
	balances, err := ss.GetLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	snapshot := make([]settlement.Balance, 0, len(balances))
	for _, b := range balances {
		snapshot = append(snapshot, settlement.Balance{UserID: b.UserID, Amount: b.NetBalance})
	}
	return settlement.Compute(snapshot), nil
}

// AmountOwed is the total of the currently suggested transfers from one
// member to another.
func (ss *SettlementService) AmountOwed(ctx context.Context, groupID, fromUserID, toUserID int64) (decimal.Decimal, error) {
	if err := requireMember(ctx, ss.members, groupID, fromUserID); err != nil {
		return decimal.Zero, err
	}
	if err := requireMember(ctx, ss.members, groupID, toUserID); err != nil {
		return decimal.Zero, err
	}

	transfers, err := ss.GetSettlements(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return settlement.Between(transfers, fromUserID, toUserID), nil
}

// NewConfirmationID lets a client allocate the id of a batch before
// submitting it.
func (ss *SettlementService) NewConfirmationID() string {
	return ss.newID()
}

// ConfirmSettlements applies a batch of transfers to the ledger once. The
// batch id is headerID when set, then req.ConfirmationID, then a new id.
// Resubmitting a batch id already recorded for the group applies nothing and
// reports the count recorded the first time.
func (ss *SettlementService) ConfirmSettlements(ctx context.Context, groupID int64, headerID string, req ConfirmRequest) (*ConfirmResult, error) {
	if len(req.Transfers) == 0 {
		return &ConfirmResult{Outcome: Created}, nil
	}

	var confirmationID string
	switch {
	case strings.TrimSpace(headerID) != "":
		confirmationID = headerID
	case strings.TrimSpace(req.ConfirmationID) != "":
		confirmationID = req.ConfirmationID
	default:
		confirmationID = ss.newID()
	}

	var result *ConfirmResult
	err := ss.repo.ExecTx(ctx, func(tx store.Repository) error {
		recorded, err := tx.CountConfirmedTransfers(ctx, groupID, confirmationID)
		if err != nil {
			return err
		}
		if recorded > 0 {
			result = &ConfirmResult{ConfirmationID: confirmationID, Applied: recorded, Outcome: Replayed}
			return nil
		}

		type pending struct {
			from, to, cents int64
		}
		batch := make([]pending, 0, len(req.Transfers))
		for _, t := range req.Transfers {
			if !t.Amount.IsPositive() {
				return invalid("amount", "Transfer amount must be positive")
			}
			cents, err := money.CheckedCents(t.Amount)
			if err != nil {
				return invalid("amount", "Transfer amount is too large")
			}
			if cents <= 0 {
				return invalid("amount", "Transfer amount must be positive and non-zero")
			}
			if err := requireMember(ctx, ss.members, groupID, t.FromUserID); err != nil {
				return err
			}
			if err := requireMember(ctx, ss.members, groupID, t.ToUserID); err != nil {
				return err
			}
			batch = append(batch, pending{from: t.FromUserID, to: t.ToUserID, cents: cents})
		}

		createdAt := ss.now().UTC().Truncate(time.Millisecond)
		for _, p := range batch {
			if err := tx.AddToLedger(ctx, groupID, p.from, p.cents); err != nil {
				return err
			}
			if err := tx.AddToLedger(ctx, groupID, p.to, -p.cents); err != nil {
				return err
			}
			if _, err := tx.InsertConfirmedTransfer(ctx, &store.ConfirmedTransfer{
				GroupID:        groupID,
				FromUserID:     p.from,
				ToUserID:       p.to,
				AmountCents:    p.cents,
				ConfirmationID: confirmationID,
				CreatedAt:      createdAt,
			}); err != nil {
				return err
			}
		}
		result = &ConfirmResult{ConfirmationID: confirmationID, Applied: len(batch), Outcome: Created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"group_id": groupID, "confirmation_id": result.ConfirmationID, "applied": result.Applied}
	if result.Outcome == Replayed {
		ss.log.WithFields(fields).Debug("settlement confirmation replayed")
	} else {
		ss.log.WithFields(fields).Info("settlements confirmed")
	}
	return result, nil
}

// ListConfirmedTransfers returns recorded transfers newest first. A
// confirmationID narrows the result to that batch and ignores the window.
func (ss *SettlementService) ListConfirmedTransfers(ctx context.Context, groupID int64, confirmationID string, opts ListOptions) ([]*ConfirmedTransfer, error) {
	rows, err := ss.repo.ListConfirmedTransfers(ctx, groupID, strings.TrimSpace(confirmationID), toFilter(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed transfers: %w", err)
	}

	out := make([]*ConfirmedTransfer, 0, len(rows))
	for _, r := range rows {
		out = append(out, &ConfirmedTransfer{
			ID:             r.ID,
			GroupID:        r.GroupID,
			FromUserID:     r.FromUserID,
			ToUserID:       r.ToUserID,
			Amount:         money.FromCents(r.AmountCents),
			ConfirmationID: r.ConfirmationID,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}
