package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"
)

// LedgerHandler serves the authenticated banking surface: accounts,
// transfers, and transaction history.
type LedgerHandler struct {
	accountService  *service.AccountService
	transferService *service.TransferService
	ledgerService   *service.LedgerService
}

func NewLedgerHandler(accountService *service.AccountService, transferService *service.TransferService,
	ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		accountService:  accountService,
		transferService: transferService,
		ledgerService:   ledgerService,
	}
}

func (h *LedgerHandler) CreateAccount(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var input dto.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	account, err := h.accountService.Create(c.UserContext(), identity, input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *LedgerHandler) ListAccounts(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	accounts, err := h.accountService.ListByOwner(c.UserContext(), identity)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"accounts": accounts})
}

func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var input dto.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.transferService.Transfer(c.UserContext(), identity, input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListTransactions pages the caller's history, optionally scoped to one of
// their accounts via ?account_id=.
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", service.DefaultPerPage)
	accountID := c.Query("account_id")

	var (
		transactions []dto.TransactionOutput
		err          error
	)
	if accountID != "" {
		transactions, err = h.ledgerService.ListByAccount(c.UserContext(), identity, accountID, page, perPage)
	} else {
		transactions, err = h.ledgerService.ListByActor(c.UserContext(), identity, page, perPage)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"transactions": transactions})
}
