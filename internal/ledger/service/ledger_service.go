package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/money"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

const (
	DefaultPerPage = 20
	maxPerPage     = 100
)

// LedgerService is the read-only query surface over the transaction ledger,
// consumed by display collaborators.
type LedgerService struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	log          *zap.Logger
}

func NewLedgerService(accounts domain.AccountRepository, transactions domain.TransactionRepository, log *zap.Logger) *LedgerService {
	return &LedgerService{accounts: accounts, transactions: transactions, log: log}
}

// ListByActor pages through the caller's transactions, newest first.
func (s *LedgerService) ListByActor(ctx context.Context, identity domain.Identity, page, perPage int) ([]dto.TransactionOutput, error) {
	limit, offset := pageBounds(page, perPage)
	list, err := s.transactions.ListByActor(ctx, identity.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toTransactionOutputs(list), nil
}

// ListByAccount pages through one account's rows (as source or destination).
// The account must belong to the caller.
func (s *LedgerService) ListByAccount(ctx context.Context, identity domain.Identity, accountID string, page, perPage int) ([]dto.TransactionOutput, error) {
	account, err := s.accounts.GetOwnedActive(ctx, accountID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.ErrAccountNotFound
	}

	limit, offset := pageBounds(page, perPage)
	list, err := s.transactions.ListByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toTransactionOutputs(list), nil
}

func pageBounds(page, perPage int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = DefaultPerPage
	}
	return perPage, (page - 1) * perPage
}

func toTransactionOutputs(list []domain.Transaction) []dto.TransactionOutput {
	out := make([]dto.TransactionOutput, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TransactionOutput{
			ID:              t.ID,
			TransactionType: t.TransactionType,
			Amount:          money.String(t.Amount),
			Description:     t.Description,
			FromAccountID:   t.FromAccountID,
			ToAccountID:     t.ToAccountID,
			CreatedAt:       t.CreatedAt,
		})
	}
	return out
}
