package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/money"
	"github.com/sakhrm410f/secure-bank-system/pkg/constant"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// createMaxAttempts bounds insert retries when two creations race on the
// same generated number. Collisions at 10^10 keyspace are vanishingly rare,
// so one retry would already be generous.
const createMaxAttempts = 3

type AccountService struct {
	accounts domain.AccountRepository
	log      *zap.Logger
}

func NewAccountService(accounts domain.AccountRepository, log *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

// randomAccountNumber draws one fixed-width numeric string from crypto/rand.
func randomAccountNumber() (string, error) {
	var b strings.Builder
	b.Grow(constant.AccountNumberLength)
	for i := 0; i < constant.AccountNumberLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("account number generation: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// GenerateAccountNumber returns a number not yet present in the store,
// regenerating on collision.
func GenerateAccountNumber(exists func(string) (bool, error)) (string, error) {
	for {
		number, err := randomAccountNumber()
		if err != nil {
			return "", err
		}
		taken, err := exists(number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
}

func (s *AccountService) Create(ctx context.Context, identity domain.Identity, input dto.CreateAccountInput) (*dto.AccountOutput, error) {
	accountType := strings.ToLower(strings.TrimSpace(input.AccountType))
	if accountType != constant.AccountTypeChecking && accountType != constant.AccountTypeSavings {
		return nil, apperr.ErrInvalidAccountType
	}

	existing, err := s.accounts.GetActiveByOwnerAndType(ctx, identity.UserID, accountType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateAccountType
	}

	account, err := s.CreateForOwner(ctx, identity.UserID, accountType)
	if err != nil {
		return nil, err
	}

	s.log.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("account_type", account.AccountType),
		zap.String("user_id", identity.UserID))

	out := toAccountOutput(account)
	return &out, nil
}

// CreateForOwner opens an account with a zero balance. The deposit engine
// also uses it when a target user has no account yet.
func (s *AccountService) CreateForOwner(ctx context.Context, ownerID, accountType string) (*domain.Account, error) {
	for attempt := 0; attempt < createMaxAttempts; attempt++ {
		number, err := GenerateAccountNumber(func(n string) (bool, error) {
			return s.accounts.NumberExists(ctx, n)
		})
		if err != nil {
			return nil, err
		}

		account := &domain.Account{
			ID:            uuid.NewString(),
			AccountNumber: number,
			UserID:        ownerID,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			IsActive:      true,
			CreatedAt:     time.Now().UTC(),
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, apperr.ErrAccountNumberTaken) {
			// Lost a race on the number; draw a fresh one.
			continue
		}
		return nil, err
	}
	return nil, apperr.ErrPersistence
}

// FirstActiveForOwner is the deposit engine's resolution step: the target
// user's oldest active account, or nil when they have none.
func (s *AccountService) FirstActiveForOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	return s.accounts.FirstActiveByOwner(ctx, ownerID)
}

func (s *AccountService) ListByOwner(ctx context.Context, identity domain.Identity) ([]dto.AccountOutput, error) {
	accounts, err := s.accounts.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountOutput, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountOutput(&accounts[i]))
	}
	return out, nil
}

func toAccountOutput(a *domain.Account) dto.AccountOutput {
	return dto.AccountOutput{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       money.String(a.Balance),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}
