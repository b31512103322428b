package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"
	"github.com/sakhrm410f/secure-bank-system/internal/mocks"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

func newAuditServiceForTest(t *testing.T) (*service.AuditService, *mocks.MockUserRepository, *mocks.MockAuditRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockUsers := mocks.NewMockUserRepository(ctrl)
	mockAudit := mocks.NewMockAuditRepository(ctrl)
	s := service.NewAuditService(mockUsers, mockAudit, 5, 24*time.Hour, zap.NewNop())

	return s, mockUsers, mockAudit
}

func TestAuditService_RecordAttempt(t *testing.T) {
	s, _, mockAudit := newAuditServiceForTest(t)

	mockAudit.EXPECT().RecordLoginAttempt(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, attempt *domain.LoginAttempt) {
			assert.NotEmpty(t, attempt.ID)
			assert.Equal(t, "alice", attempt.Username)
			assert.Equal(t, "203.0.113.9", attempt.IPAddress)
			assert.Equal(t, "test-agent", attempt.UserAgent)
			assert.False(t, attempt.Success)
			assert.False(t, attempt.AttemptedAt.IsZero())
		}).
		Return(nil)

	s.RecordAttempt(context.Background(), "alice", "203.0.113.9", "test-agent", false)
}

func TestAuditService_RecordAttempt_SwallowsWriteError(t *testing.T) {
	s, _, mockAudit := newAuditServiceForTest(t)

	mockAudit.EXPECT().RecordLoginAttempt(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	// Must not panic or propagate; the login flow never blocks on auditing.
	s.RecordAttempt(context.Background(), "alice", "203.0.113.9", "test-agent", true)
}

func TestAuditService_Unlock_Success(t *testing.T) {
	s, mockUsers, _ := newAuditServiceForTest(t)

	until := time.Now().UTC().Add(20 * time.Minute)
	locked := &domain.User{
		ID:       "user-1",
		Username: "alice",
		Lockout:  domain.Lockout{FailedAttempts: 3, LockedUntil: &until},
	}

	mockUsers.EXPECT().GetByID(gomock.Any(), "user-1").Return(locked, nil)
	mockUsers.EXPECT().UpdateLockout(gomock.Any(), "user-1", gomock.Any()).
		Do(func(_ context.Context, _ string, lockout domain.Lockout) {
			assert.Zero(t, lockout.FailedAttempts)
			assert.Nil(t, lockout.LockedUntil)
		}).
		Return(nil)

	err := s.Unlock(context.Background(), adminIdentity(), "user-1")

	assert.NoError(t, err)
}

func TestAuditService_Unlock_NonAdminForbidden(t *testing.T) {
	s, _, _ := newAuditServiceForTest(t)

	err := s.Unlock(context.Background(), testIdentity(), "user-1")

	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAuditService_Unlock_UserNotFound(t *testing.T) {
	s, mockUsers, _ := newAuditServiceForTest(t)

	mockUsers.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, nil)

	err := s.Unlock(context.Background(), adminIdentity(), "ghost")

	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestAuditService_SecurityOverview(t *testing.T) {
	s, mockUsers, mockAudit := newAuditServiceForTest(t)

	until := time.Now().UTC().Add(15 * time.Minute)
	mockAudit.EXPECT().RecentFailures(gomock.Any(), 50).Return([]domain.LoginAttempt{
		{ID: "a-1", Username: "alice", IPAddress: "203.0.113.9", Success: false},
	}, nil)
	mockUsers.EXPECT().ListLocked(gomock.Any(), gomock.Any()).Return([]domain.User{
		{ID: "user-1", Username: "alice", Lockout: domain.Lockout{FailedAttempts: 3, LockedUntil: &until}},
	}, nil)
	mockAudit.EXPECT().SuspiciousIPs(gomock.Any(), gomock.Any(), 5).
		DoAndReturn(func(_ context.Context, since time.Time, _ int) ([]domain.SuspiciousIP, error) {
			// Window start sits 24h behind now.
			assert.WithinDuration(t, time.Now().UTC().Add(-24*time.Hour), since, time.Minute)
			return []domain.SuspiciousIP{{IPAddress: "203.0.113.9", AttemptCount: 7}}, nil
		})

	overview, err := s.SecurityOverview(context.Background(), adminIdentity())

	assert.NoError(t, err)
	assert.NotNil(t, overview)
	assert.Len(t, overview.FailedLogins, 1)
	assert.Len(t, overview.LockedUsers, 1)
	assert.Equal(t, "user-1", overview.LockedUsers[0].UserID)
	assert.Len(t, overview.SuspiciousIPs, 1)
	assert.Equal(t, 7, overview.SuspiciousIPs[0].AttemptCount)
}

func TestAuditService_SecurityOverview_NonAdminForbidden(t *testing.T) {
	s, _, _ := newAuditServiceForTest(t)

	overview, err := s.SecurityOverview(context.Background(), testIdentity())

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Nil(t, overview)
}

func TestAuditService_ListAttempts(t *testing.T) {
	s, _, mockAudit := newAuditServiceForTest(t)

	mockAudit.EXPECT().ListAttempts(gomock.Any(), service.DefaultPerPage, 0).Return([]domain.LoginAttempt{
		{ID: "a-1", Username: "alice", Success: true},
		{ID: "a-2", Username: "bob", Success: false},
	}, nil)

	out, err := s.ListAttempts(context.Background(), adminIdentity(), 1, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "alice", out[0].Username)
}

func TestAuditService_ListAttempts_NonAdminForbidden(t *testing.T) {
	s, _, _ := newAuditServiceForTest(t)

	out, err := s.ListAttempts(context.Background(), testIdentity(), 1, 0)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Nil(t, out)
}
