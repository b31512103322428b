package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/config"
	"github.com/sakhrm410f/secure-bank-system/db"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/handler"
	repo "github.com/sakhrm410f/secure-bank-system/internal/ledger/repository/postgres"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	cancel()
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(ctx, pool)
	cancel()
	if err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}

	ceiling, err := decimal.NewFromString(cfg.TransferCeiling)
	if err != nil {
		log.Fatal("invalid transfer ceiling", zap.String("value", cfg.TransferCeiling), zap.Error(err))
	}

	userRepo := repo.NewUserRepository(pool)
	accountRepo := repo.NewAccountRepository(pool)
	transactionRepo := repo.NewTransactionRepository(pool)
	auditRepo := repo.NewAuditRepository(pool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.AccessExpiryMin)
	auditService := service.NewAuditService(userRepo, auditRepo,
		cfg.SuspiciousIPThreshold, time.Duration(cfg.SuspiciousIPWindowHours)*time.Hour, log)
	userService := service.NewUserService(userRepo, auditService, tokenService,
		cfg.LoginMaxAttempts, time.Duration(cfg.LockoutMinutes)*time.Minute, log)
	accountService := service.NewAccountService(accountRepo, log)
	transferService := service.NewTransferService(accountRepo, transactionRepo,
		ceiling, cfg.TransferMaxRetries, log)
	ledgerService := service.NewLedgerService(accountRepo, transactionRepo, log)
	depositService := service.NewDepositService(userRepo, accountService, transactionRepo,
		cfg.TransferMaxRetries, log)

	authHandler := handler.NewAuthHandler(userService, tokenService)
	ledgerHandler := handler.NewLedgerHandler(accountService, transferService, ledgerService)
	adminHandler := handler.NewAdminHandler(depositService, auditService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, ledgerHandler, adminHandler)

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
