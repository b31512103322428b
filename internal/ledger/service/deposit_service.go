package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/money"
	"github.com/sakhrm410f/secure-bank-system/pkg/constant"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

type DepositService struct {
	users        domain.UserRepository
	accounts     *AccountService
	transactions domain.TransactionRepository
	maxRetries   int
	log          *zap.Logger
}

func NewDepositService(users domain.UserRepository, accounts *AccountService,
	transactions domain.TransactionRepository, maxRetries int, log *zap.Logger) *DepositService {
	return &DepositService{
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		maxRetries:   maxRetries,
		log:          log,
	}
}

// Deposit credits a user's first active account, creating a checking
// account first when the user has none. The caller's role is checked by the
// transport layer; the engine re-asserts it on the passed identity.
func (s *DepositService) Deposit(ctx context.Context, identity domain.Identity, targetUserID string, input dto.DepositInput) (*dto.DepositResult, error) {
	if !identity.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	amount, err := money.ParseQuantized(input.Amount)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" || len(description) > constant.MaxDescriptionLength-len(constant.AdminDepositPrefix) {
		return nil, apperr.ErrInvalidDescription
	}

	user, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	account, err := s.accounts.FirstActiveForOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account, err = s.accounts.CreateForOwner(ctx, user.ID, constant.AccountTypeChecking)
		if err != nil {
			return nil, err
		}
	}

	rec := &domain.Transaction{
		ID:              uuid.NewString(),
		TransactionType: constant.TransactionTypeDeposit,
		Amount:          amount,
		Description:     constant.AdminDepositPrefix + description,
		ToAccountID:     &account.ID,
		UserID:          identity.UserID,
		IPAddress:       input.IPAddress,
		UserAgent:       input.UserAgent,
		CreatedAt:       time.Now().UTC(),
	}

	var newBalance decimal.Decimal
	operation := func() error {
		balance, err := s.transactions.Deposit(ctx, account.ID, amount, rec)
		if err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		newBalance = balance
		return nil
	}
	if err := backoff.Retry(operation, conflictBackOff(ctx, s.maxRetries)); err != nil {
		return nil, err
	}

	s.log.Info("administrative deposit committed",
		zap.String("transaction_id", rec.ID),
		zap.String("account_id", account.ID),
		zap.String("target_user", user.ID),
		zap.String("admin", identity.UserID),
		zap.String("amount", money.String(amount)))

	return &dto.DepositResult{
		TransactionID: rec.ID,
		AccountID:     account.ID,
		NewBalance:    money.String(newBalance),
	}, nil
}
