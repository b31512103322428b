package domain

import "time"

// Lockout tracks consecutive authentication failures for one user. The
// machine has two states, unlocked and locked; it locks when the failure
// count reaches the threshold and unlocks once the expiry passes or an
// administrator clears it.
type Lockout struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

// Locked reports whether the account rejects authentication at t, regardless
// of credential correctness.
func (l *Lockout) Locked(t time.Time) bool {
	return l.LockedUntil != nil && t.Before(*l.LockedUntil)
}

// RecordFailure counts one failed attempt. Reaching maxFailures locks the
// account for lockFor measured from the triggering failure.
func (l *Lockout) RecordFailure(t time.Time, maxFailures int, lockFor time.Duration) {
	l.FailedAttempts++
	if l.FailedAttempts >= maxFailures {
		until := t.Add(lockFor)
		l.LockedUntil = &until
	}
}

// RecordSuccess resets the machine after a successful authentication.
func (l *Lockout) RecordSuccess() {
	l.Reset()
}

// Reset clears the failure counter and any active lock. Administrative
// unlock uses this directly.
func (l *Lockout) Reset() {
	l.FailedAttempts = 0
	l.LockedUntil = nil
}
