package service

import (
	"context"
	"errors"
	"regexp"
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

var accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

const retryInitialInterval = 100 * time.Millisecond

type TransferService struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	ceiling      decimal.Decimal
	maxRetries   int
	log          *zap.Logger
}

func NewTransferService(accounts domain.AccountRepository, transactions domain.TransactionRepository,
	ceiling decimal.Decimal, maxRetries int, log *zap.Logger) *TransferService {
	return &TransferService{
		accounts:     accounts,
		transactions: transactions,
		ceiling:      ceiling,
		maxRetries:   maxRetries,
		log:          log,
	}
}

// Transfer moves amount between two accounts. The request terminates either
// Committed (one ledger row, both balances moved) or Rejected (no visible
// state change, a specific reason).
func (s *TransferService) Transfer(ctx context.Context, identity domain.Identity, input dto.TransferInput) (*dto.TransferResult, error) {
	// Validate. Structural checks run here even though the transport layer
	// sanitized the input already.
	if !accountNumberPattern.MatchString(input.ToAccountNumber) {
		return nil, apperr.ErrInvalidAccountNumber
	}
	amount, err := money.ParseExact(input.Amount)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(s.ceiling) {
		return nil, apperr.ErrInvalidAmount
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > constant.MaxDescriptionLength {
		return nil, apperr.ErrInvalidDescription
	}

	// Resolve. The source must belong to the caller; the destination is
	// addressed by number and merely has to exist and be active.
	source, err := s.accounts.GetOwnedActive(ctx, input.FromAccountID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, apperr.ErrSourceNotFound
	}
	destination, err := s.accounts.GetActiveByNumber(ctx, input.ToAccountNumber)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, apperr.ErrDestinationNotFound
	}
	if source.ID == destination.ID {
		return nil, apperr.ErrSameAccount
	}

	if description == "" {
		description = "Transfer to " + destination.AccountNumber
	}

	rec := &domain.Transaction{
		ID:              uuid.NewString(),
		TransactionType: constant.TransactionTypeTransfer,
		Amount:          amount,
		Description:     description,
		FromAccountID:   &source.ID,
		ToAccountID:     &destination.ID,
		UserID:          identity.UserID,
		IPAddress:       input.IPAddress,
		UserAgent:       input.UserAgent,
		CreatedAt:       time.Now().UTC(),
	}

	newBalance, err := s.apply(ctx, source.ID, destination.ID, amount, rec)
	if err != nil {
		return nil, err
	}

	s.log.Info("transfer committed",
		zap.String("transaction_id", rec.ID),
		zap.String("from_account", source.ID),
		zap.String("to_account", destination.ID),
		zap.String("amount", money.String(amount)))

	return &dto.TransferResult{
		TransactionID: rec.ID,
		NewBalance:    money.String(newBalance),
	}, nil
}

// apply runs the atomic storage operation, retrying only on Conflict a
// bounded number of times. Nothing is committed on the retried attempts, so
// reusing the same transaction record is safe.
func (s *TransferService) apply(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal, rec *domain.Transaction) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	operation := func() error {
		balance, err := s.transactions.Transfer(ctx, sourceID, destinationID, amount, rec)
		if err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				s.log.Warn("transfer conflict, retrying", zap.String("transaction_id", rec.ID))
				return err
			}
			return backoff.Permanent(err)
		}
		newBalance = balance
		return nil
	}

	if err := backoff.Retry(operation, conflictBackOff(ctx, s.maxRetries)); err != nil {
		return decimal.Decimal{}, err
	}
	return newBalance, nil
}

func conflictBackOff(ctx context.Context, maxRetries int) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), ctx)
}
