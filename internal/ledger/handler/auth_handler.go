package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

const identityKey = "identity"

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		status := fiber.StatusBadRequest
		if err == apperr.ErrUsernameTaken || err == apperr.ErrEmailTaken {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	// Capture metadata
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		status := fiber.StatusUnauthorized
		if err == apperr.ErrAccountLocked {
			status = fiber.StatusLocked
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// RequireAuth verifies the bearer token and stores the caller's identity in
// the request locals.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed token",
			})
		}

		claims, err := h.tokenService.VerifyAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(identityKey, domain.Identity{UserID: claims.UserID, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole gates a route group on the authenticated caller's role.
// It must run after RequireAuth.
func (h *AuthHandler) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals(identityKey).(domain.Identity)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed token",
			})
		}
		if identity.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": apperr.ErrForbidden.Error(),
			})
		}
		return c.Next()
	}
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
