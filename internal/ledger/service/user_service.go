package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/pkg/constant"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// UserService is the authentication collaborator: it registers users and
// exchanges credentials for access tokens, gated by the lockout recorder.
type UserService struct {
	users  domain.UserRepository
	audit  *AuditService
	tokens TokenGenerator

	maxFailures int
	lockFor     time.Duration

	log *zap.Logger
}

func NewUserService(users domain.UserRepository, audit *AuditService, tokens TokenGenerator,
	maxFailures int, lockFor time.Duration, log *zap.Logger) *UserService {
	return &UserService{
		users:       users,
		audit:       audit,
		tokens:      tokens,
		maxFailures: maxFailures,
		lockFor:     lockFor,
		log:         log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	if !validUsername(username) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !validEmail(email) {
		return nil, apperr.ErrInvalidCredentials
	}
	if len(fullName) < 2 {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.ErrUsernameTaken
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         constant.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user. Every attempt, resolvable or not, lands in
// the audit log. A locked account rejects even a correct credential until
// the lock expires.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	now := time.Now().UTC()
	username := strings.TrimSpace(input.Username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.IsActive {
		s.audit.RecordAttempt(ctx, username, input.IPAddress, input.UserAgent, false)
		return nil, apperr.ErrInvalidCredentials
	}

	if user.Lockout.Locked(now) {
		s.audit.RecordAttempt(ctx, username, input.IPAddress, input.UserAgent, false)
		return nil, apperr.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		user.Lockout.RecordFailure(now, s.maxFailures, s.lockFor)
		if err := s.users.UpdateLockout(ctx, user.ID, user.Lockout); err != nil {
			return nil, err
		}
		s.audit.RecordAttempt(ctx, username, input.IPAddress, input.UserAgent, false)
		return nil, apperr.ErrInvalidCredentials
	}

	user.Lockout.RecordSuccess()
	if err := s.users.UpdateLockout(ctx, user.ID, user.Lockout); err != nil {
		return nil, err
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	s.audit.RecordAttempt(ctx, username, input.IPAddress, input.UserAgent, true)

	token, _, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: token}, nil
}
