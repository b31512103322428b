package domain

import "time"

// User owns accounts and acts on transactions. Lockout state lives on the
// user row so the authentication collaborator can gate on it atomically.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string
	IsActive     bool
	Lockout      Lockout
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Identity is the authenticated caller passed explicitly into every engine
// operation. There is no ambient current-user lookup inside the core.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// LoginAttempt is an append-only audit record. Username may not resolve to a
// real user; the row is kept either way.
type LoginAttempt struct {
	ID          string
	IPAddress   string
	Username    string
	Success     bool
	UserAgent   string
	AttemptedAt time.Time
}

// SuspiciousIP aggregates failed attempts per origin address over a window.
type SuspiciousIP struct {
	IPAddress    string
	AttemptCount int
}
