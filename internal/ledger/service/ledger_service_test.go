package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"
	"github.com/sakhrm410f/secure-bank-system/internal/mocks"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

func newLedgerServiceForTest(t *testing.T) (*service.LedgerService, *mocks.MockAccountRepository, *mocks.MockTransactionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockAccounts := mocks.NewMockAccountRepository(ctrl)
	mockTransactions := mocks.NewMockTransactionRepository(ctrl)
	s := service.NewLedgerService(mockAccounts, mockTransactions, zap.NewNop())

	return s, mockAccounts, mockTransactions
}

func TestLedgerService_ListByActor(t *testing.T) {
	s, _, mockTransactions := newLedgerServiceForTest(t)

	src := "acc-1"
	dst := "acc-2"
	mockTransactions.EXPECT().ListByActor(gomock.Any(), "user-1", service.DefaultPerPage, 0).Return([]domain.Transaction{
		{
			ID:              "tx-1",
			TransactionType: "transfer",
			Amount:          decimal.RequireFromString("40"),
			Description:     "Rent",
			FromAccountID:   &src,
			ToAccountID:     &dst,
			UserID:          "user-1",
			CreatedAt:       time.Now().UTC(),
		},
	}, nil)

	out, err := s.ListByActor(context.Background(), testIdentity(), 1, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "tx-1", out[0].ID)
	assert.Equal(t, "40.00", out[0].Amount)
	assert.Equal(t, "acc-1", *out[0].FromAccountID)
}

func TestLedgerService_ListByActor_PageBounds(t *testing.T) {
	s, _, mockTransactions := newLedgerServiceForTest(t)

	// Page 3 of 10 per page lands at offset 20; absurd perPage falls back
	// to the default.
	mockTransactions.EXPECT().ListByActor(gomock.Any(), "user-1", 10, 20).Return(nil, nil)
	_, err := s.ListByActor(context.Background(), testIdentity(), 3, 10)
	assert.NoError(t, err)

	mockTransactions.EXPECT().ListByActor(gomock.Any(), "user-1", service.DefaultPerPage, 0).Return(nil, nil)
	_, err = s.ListByActor(context.Background(), testIdentity(), -1, 10000)
	assert.NoError(t, err)
}

func TestLedgerService_ListByAccount_Success(t *testing.T) {
	s, mockAccounts, mockTransactions := newLedgerServiceForTest(t)

	account := &domain.Account{ID: "acc-1", UserID: "user-1", IsActive: true}
	mockAccounts.EXPECT().GetOwnedActive(gomock.Any(), "acc-1", "user-1").Return(account, nil)
	mockTransactions.EXPECT().ListByAccount(gomock.Any(), "acc-1", service.DefaultPerPage, 0).Return([]domain.Transaction{
		{ID: "tx-1", TransactionType: "deposit", Amount: decimal.RequireFromString("25")},
	}, nil)

	out, err := s.ListByAccount(context.Background(), testIdentity(), "acc-1", 1, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "25.00", out[0].Amount)
}

func TestLedgerService_ListByAccount_NotOwned(t *testing.T) {
	s, mockAccounts, _ := newLedgerServiceForTest(t)

	mockAccounts.EXPECT().GetOwnedActive(gomock.Any(), "acc-foreign", "user-1").Return(nil, nil)

	out, err := s.ListByAccount(context.Background(), testIdentity(), "acc-foreign", 1, 0)

	assert.ErrorIs(t, err, apperr.ErrAccountNotFound)
	assert.Nil(t, out)
}
