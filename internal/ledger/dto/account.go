package dto

import (
	"time"
)

type CreateAccountInput struct {
	AccountType string `json:"account_type"`
}

type AccountOutput struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Balance       string    `json:"balance"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type TransactionOutput struct {
	ID              string    `json:"id"`
	TransactionType string    `json:"transaction_type"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description"`
	FromAccountID   *string   `json:"from_account_id,omitempty"`
	ToAccountID     *string   `json:"to_account_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type LoginAttemptOutput struct {
	IPAddress   string    `json:"ip_address"`
	Username    string    `json:"username"`
	Success     bool      `json:"success"`
	UserAgent   string    `json:"user_agent"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type SuspiciousIPOutput struct {
	IPAddress    string `json:"ip_address"`
	AttemptCount int    `json:"attempt_count"`
}

// SecurityOverview backs the admin security screen.
type SecurityOverview struct {
	FailedLogins  []LoginAttemptOutput `json:"failed_logins"`
	LockedUsers   []LockedUserOutput   `json:"locked_users"`
	SuspiciousIPs []SuspiciousIPOutput `json:"suspicious_ips"`
}

type LockedUserOutput struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	LockedUntil time.Time `json:"locked_until"`
}
