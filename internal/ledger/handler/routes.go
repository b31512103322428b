package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, auth *AuthHandler, ledger *LedgerHandler, admin *AdminHandler) {
	app.Post("/api/v1/register", auth.Register)
	app.Post("/api/v1/login", auth.Login)

	api := app.Group("/api/v1", auth.RequireAuth())
	api.Post("/accounts", ledger.CreateAccount)
	api.Get("/accounts", ledger.ListAccounts)
	api.Post("/transfers", ledger.Transfer)
	api.Get("/transactions", ledger.ListTransactions)

	// Admin-only endpoints
	adminGroup := api.Group("/admin", auth.RequireRole("admin"))
	adminGroup.Post("/users/:id/deposit", admin.Deposit)
	adminGroup.Post("/users/:id/unlock", admin.Unlock)
	adminGroup.Get("/security", admin.Security)
	adminGroup.Get("/login-attempts", admin.LoginAttempts)
}
