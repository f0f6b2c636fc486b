package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/partner-portal/internal/config"
	"github.com/example/partner-portal/internal/database"
	"github.com/example/partner-portal/internal/handlers"
	"github.com/example/partner-portal/internal/otp"
	"github.com/example/partner-portal/internal/routes"
	"github.com/example/partner-portal/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap.NewProduction error: %v", err)
	}
	defer zl.Sync()

	db := database.Connect(cfg.DatabaseURL)

	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		zl.Fatal("redis connection failed", zap.Error(err))
	}
	ledger := otp.NewLedger(redisClient, cfg.OTPExpires)

	mailer, err := services.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.MailFrom)
	if err != nil {
		zl.Fatal("ses mailer init failed", zap.Error(err))
	}
	notifier := services.NewNotifier(mailer, zl, cfg.MailTimeout)
	defer notifier.Flush()

	app := fiber.New(fiber.Config{
		AppName:      "Partner Portal Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, ledger, notifier, zl)

	zl.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zl.Fatal("fiber.Listen error", zap.Error(err))
	}
}
