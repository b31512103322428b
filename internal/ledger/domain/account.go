package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a balance for exactly one owner. Balance is only ever
// mutated through the account store's conditional updates and can never go
// negative.
type Account struct {
	ID            string
	AccountNumber string
	UserID        string
	AccountType   string
	Balance       decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
}

// Transaction is one completed monetary movement. Rows are immutable once
// written: the repository exposes no update or delete for them.
type Transaction struct {
	ID              string
	TransactionType string
	Amount          decimal.Decimal
	Description     string
	FromAccountID   *string
	ToAccountID     *string
	UserID          string
	IPAddress       string
	UserAgent       string
	CreatedAt       time.Time
}
