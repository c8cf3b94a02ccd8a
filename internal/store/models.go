package store

import "time"

// Money columns hold integer cents.

type Expense struct {
	ID             int64
	GroupID        int64
	PayerUserID    int64
	Description    string
	AmountCents    int64
	CreatedAt      time.Time
	IdempotencyKey string
	Voided         bool
}

type Participant struct {
	ExpenseID  int64
	UserID     int64
	ShareCents int64
}

// ExpenseShare is a participant row joined with its expense.
type ExpenseShare struct {
	ExpenseID   int64
	Description string
	CreatedAt   time.Time
	UserID      int64
	ShareCents  int64
}

type LedgerEntry struct {
	GroupID         int64
	UserID          int64
	NetBalanceCents int64
}

type ConfirmedTransfer struct {
	ID             int64
	GroupID        int64
	FromUserID     int64
	ToUserID       int64
	AmountCents    int64
	ConfirmationID string
	CreatedAt      time.Time
}

type ExpenseEvent struct {
	ID        int64
	GroupID   int64
	ExpenseID int64
	EventType string
	Payload   string
	CreatedAt time.Time
}

// ListFilter bounds a listing by creation time. Zero times leave that side
// open; a non-positive Limit returns everything after Offset.
type ListFilter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
