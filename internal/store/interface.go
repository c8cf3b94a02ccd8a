package store

import "context"

type Repository interface {
	// Member Operations
	AddMember(ctx context.Context, groupID, userID int64) (bool, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]int64, error)

	// Expense Operations
	CreateExpense(ctx context.Context, e *Expense) (int64, error)
	GetExpense(ctx context.Context, expenseID int64) (*Expense, error)
	GetExpenseByIdempotencyKey(ctx context.Context, groupID int64, key string) (*Expense, error)
	LockExpense(ctx context.Context, expenseID int64) error
	UpdateExpense(ctx context.Context, expenseID, payerUserID int64, description string, amountCents int64) error
	MarkExpenseVoided(ctx context.Context, expenseID int64) error
	ListExpenses(ctx context.Context, groupID int64, filter ListFilter) ([]*Expense, error)

	// Participant Operations
	InsertParticipants(ctx context.Context, expenseID int64, participants []Participant) error
	DeleteParticipants(ctx context.Context, expenseID int64) error
	GetParticipants(ctx context.Context, expenseID int64) ([]*Participant, error)
	ListActiveShares(ctx context.Context, groupID int64) ([]*ExpenseShare, error)
	SumSharesOwedTo(ctx context.Context, groupID, payerUserID, userID int64) (int64, error)

	// Ledger Operations
	GetOrCreateLedgerEntry(ctx context.Context, groupID, userID int64) (*LedgerEntry, error)
	AddToLedger(ctx context.Context, groupID, userID, deltaCents int64) error
	ListLedger(ctx context.Context, groupID int64) ([]*LedgerEntry, error)

	// Transfer Operations
	InsertConfirmedTransfer(ctx context.Context, t *ConfirmedTransfer) (int64, error)
	CountConfirmedTransfers(ctx context.Context, groupID int64, confirmationID string) (int, error)
	SumConfirmedTransfers(ctx context.Context, groupID, fromUserID, toUserID int64) (int64, error)
	ListConfirmedTransfers(ctx context.Context, groupID int64, confirmationID string, filter ListFilter) ([]*ConfirmedTransfer, error)

	// Event Operations
	InsertEvent(ctx context.Context, e *ExpenseEvent) (int64, error)
	ListEvents(ctx context.Context, groupID int64, filter ListFilter) ([]*ExpenseEvent, error)

	ExecTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}
