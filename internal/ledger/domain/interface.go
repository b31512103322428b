package domain

//go:generate mockgen -destination=../../mocks/mock_repositories.go -package=mocks github.com/sakhrm410f/secure-bank-system/internal/ledger/domain UserRepository,AccountRepository,TransactionRepository,AuditRepository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	// UpdateLockout persists the user's lockout machine state.
	UpdateLockout(ctx context.Context, userID string, lockout Lockout) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	ListLocked(ctx context.Context, now time.Time) ([]User, error)
}

// AccountRepository is the account store: the sole mutator of balances.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	// GetOwnedActive resolves an active account only when ownerID owns it.
	GetOwnedActive(ctx context.Context, id, ownerID string) (*Account, error)
	GetActiveByNumber(ctx context.Context, number string) (*Account, error)
	GetActiveByOwnerAndType(ctx context.Context, ownerID, accountType string) (*Account, error)
	FirstActiveByOwner(ctx context.Context, ownerID string) (*Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Account, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	// AdjustBalance applies delta atomically, refusing any result below
	// minBalance. Returns the new balance.
	AdjustBalance(ctx context.Context, accountID string, delta, minBalance decimal.Decimal) (decimal.Decimal, error)
}

// TransactionRepository appends to and reads the immutable ledger. Transfer
// and Deposit run the balance mutations and the append in one storage
// transaction: all of it commits or none of it does.
type TransactionRepository interface {
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, rec *Transaction) (decimal.Decimal, error)
	Deposit(ctx context.Context, toAccountID string, amount decimal.Decimal, rec *Transaction) (decimal.Decimal, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error)
	ListByActor(ctx context.Context, userID string, limit, offset int) ([]Transaction, error)
}

type AuditRepository interface {
	RecordLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	RecentFailures(ctx context.Context, limit int) ([]LoginAttempt, error)
	ListAttempts(ctx context.Context, limit, offset int) ([]LoginAttempt, error)
	// SuspiciousIPs returns origins with at least threshold failures since
	// the given time.
	SuspiciousIPs(ctx context.Context, since time.Time, threshold int) ([]SuspiciousIP, error)
}
