package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

const recentFailureLimit = 50

// AuditService records authentication attempts and serves the security
// monitoring views derived from them.
type AuditService struct {
	users domain.UserRepository
	audit domain.AuditRepository

	suspiciousThreshold int
	suspiciousWindow    time.Duration

	log *zap.Logger
}

func NewAuditService(users domain.UserRepository, audit domain.AuditRepository,
	suspiciousThreshold int, suspiciousWindow time.Duration, log *zap.Logger) *AuditService {
	return &AuditService{
		users:               users,
		audit:               audit,
		suspiciousThreshold: suspiciousThreshold,
		suspiciousWindow:    suspiciousWindow,
		log:                 log,
	}
}

// RecordAttempt appends one attempt row. Failures to write the audit trail
// are logged but never block the caller's authentication flow.
func (s *AuditService) RecordAttempt(ctx context.Context, username, ip, userAgent string, success bool) {
	attempt := &domain.LoginAttempt{
		ID:          uuid.NewString(),
		IPAddress:   ip,
		Username:    username,
		Success:     success,
		UserAgent:   userAgent,
		AttemptedAt: time.Now().UTC(),
	}
	if err := s.audit.RecordLoginAttempt(ctx, attempt); err != nil {
		s.log.Error("failed to record login attempt", zap.Error(err), zap.String("username", username))
	}
}

// Unlock clears a user's lockout state and failure counter.
func (s *AuditService) Unlock(ctx context.Context, identity domain.Identity, userID string) error {
	if !identity.IsAdmin() {
		return apperr.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrUserNotFound
	}

	user.Lockout.Reset()
	if err := s.users.UpdateLockout(ctx, user.ID, user.Lockout); err != nil {
		return err
	}

	s.log.Info("account unlocked by administrator",
		zap.String("user_id", user.ID),
		zap.String("admin", identity.UserID))
	return nil
}

// SecurityOverview assembles the admin security screen: recent failures,
// currently locked users, and origins with repeated failures in the window.
func (s *AuditService) SecurityOverview(ctx context.Context, identity domain.Identity) (*dto.SecurityOverview, error) {
	if !identity.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	now := time.Now().UTC()

	failures, err := s.audit.RecentFailures(ctx, recentFailureLimit)
	if err != nil {
		return nil, err
	}
	locked, err := s.users.ListLocked(ctx, now)
	if err != nil {
		return nil, err
	}
	suspicious, err := s.audit.SuspiciousIPs(ctx, now.Add(-s.suspiciousWindow), s.suspiciousThreshold)
	if err != nil {
		return nil, err
	}

	overview := &dto.SecurityOverview{
		FailedLogins:  make([]dto.LoginAttemptOutput, 0, len(failures)),
		LockedUsers:   make([]dto.LockedUserOutput, 0, len(locked)),
		SuspiciousIPs: make([]dto.SuspiciousIPOutput, 0, len(suspicious)),
	}
	for _, a := range failures {
		overview.FailedLogins = append(overview.FailedLogins, toAttemptOutput(a))
	}
	for _, u := range locked {
		if u.Lockout.LockedUntil == nil {
			continue
		}
		overview.LockedUsers = append(overview.LockedUsers, dto.LockedUserOutput{
			UserID:      u.ID,
			Username:    u.Username,
			LockedUntil: *u.Lockout.LockedUntil,
		})
	}
	for _, ip := range suspicious {
		overview.SuspiciousIPs = append(overview.SuspiciousIPs, dto.SuspiciousIPOutput{
			IPAddress:    ip.IPAddress,
			AttemptCount: ip.AttemptCount,
		})
	}
	return overview, nil
}

// ListAttempts pages through the full attempt log, newest first.
func (s *AuditService) ListAttempts(ctx context.Context, identity domain.Identity, page, perPage int) ([]dto.LoginAttemptOutput, error) {
	if !identity.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	limit, offset := pageBounds(page, perPage)
	attempts, err := s.audit.ListAttempts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoginAttemptOutput, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, toAttemptOutput(a))
	}
	return out, nil
}

func toAttemptOutput(a domain.LoginAttempt) dto.LoginAttemptOutput {
	return dto.LoginAttemptOutput{
		IPAddress:   a.IPAddress,
		Username:    a.Username,
		Success:     a.Success,
		UserAgent:   a.UserAgent,
		AttemptedAt: a.AttemptedAt,
	}
}
