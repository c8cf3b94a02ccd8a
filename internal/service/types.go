package service

import (
	"time"

	"github.com/hance08/fairshare/internal/settlement"
	"github.com/shopspring/decimal"
)

// ExpenseInput carries the fields shared by create and update. At most one
// of ExactAmounts, Percentages and Shares may be set; each is aligned with
// ParticipantUserIDs.
type ExpenseInput struct {
	Description        string
	Amount             decimal.Decimal
	PayerUserID        int64
	ParticipantUserIDs []int64
	ExactAmounts       []decimal.Decimal
	Percentages        []decimal.Decimal
	Shares             []int64
}

type Split struct {
	UserID int64
	Amount decimal.Decimal
}

type Expense struct {
	ID          int64
	GroupID     int64
	Description string
	Amount      decimal.Decimal
	PayerUserID int64
	CreatedAt   time.Time
	Voided      bool
	Splits      []Split
}

type Outcome int

const (
	Created Outcome = iota
	Replayed
)

func (o Outcome) String() string {
	if o == Replayed {
		return "replayed"
	}
	return "created"
}

// CreateResult tells a fresh expense apart from an idempotent replay.
type CreateResult struct {
	Expense *Expense
	Outcome Outcome
}

type Balance struct {
	UserID     int64
	NetBalance decimal.Decimal
}

type Transfer = settlement.Transfer

type ConfirmRequest struct {
	ConfirmationID string
	Transfers      []Transfer
}

type ConfirmResult struct {
	ConfirmationID string
	Applied        int
	Outcome        Outcome
}

type ConfirmedTransfer struct {
	ID             int64
	GroupID        int64
	FromUserID     int64
	ToUserID       int64
	Amount         decimal.Decimal
	ConfirmationID string
	CreatedAt      time.Time
}

type Event struct {
	ID        int64
	GroupID   int64
	ExpenseID int64
	EventType string
	Payload   string
	CreatedAt time.Time
}

const (
	EventExpenseCreated = "ExpenseCreated"
	EventExpenseUpdated = "ExpenseUpdated"
	EventExpenseVoided  = "ExpenseVoided"
)

type ContributionType string

const (
	ContributionExpensePaid      ContributionType = "EXPENSE_PAID"
	ContributionExpenseShare     ContributionType = "EXPENSE_SHARE"
	ContributionTransferSent     ContributionType = "TRANSFER_SENT"
	ContributionTransferReceived ContributionType = "TRANSFER_RECEIVED"
)

type Contribution struct {
	Type        ContributionType
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
	ReferenceID int64
}

type MemberExplanation struct {
	UserID        int64
	NetBalance    decimal.Decimal
	Contributions []Contribution
}

// ListOptions bounds a listing by creation time and pages through it.
// Zero times leave that side open; Limit <= 0 means no limit.
type ListOptions struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
