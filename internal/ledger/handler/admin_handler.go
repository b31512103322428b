package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"
)

// AdminHandler serves the administrative surface: deposits, account
// unlocking, and security monitoring.
type AdminHandler struct {
	depositService *service.DepositService
	auditService   *service.AuditService
}

func NewAdminHandler(depositService *service.DepositService, auditService *service.AuditService) *AdminHandler {
	return &AdminHandler{depositService: depositService, auditService: auditService}
}

func (h *AdminHandler) Deposit(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var input dto.DepositInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.depositService.Deposit(c.UserContext(), identity, c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AdminHandler) Unlock(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := h.auditService.Unlock(c.UserContext(), identity, c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "unlocked"})
}

func (h *AdminHandler) Security(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	overview, err := h.auditService.SecurityOverview(c.UserContext(), identity)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(overview)
}

func (h *AdminHandler) LoginAttempts(c *fiber.Ctx) error {
	identity, ok := callerIdentity(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", service.DefaultPerPage)

	attempts, err := h.auditService.ListAttempts(c.UserContext(), identity, page, perPage)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"login_attempts": attempts})
}
