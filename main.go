package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-booking/config"
	"rental-booking/database"
	"rental-booking/logger"
	"rental-booking/middleware"
	"rental-booking/routes"
	bookingService "rental-booking/services/booking"
	"rental-booking/services/exchange_rate"
	"rental-booking/services/ledger"
	"rental-booking/services/locker"
	receiptService "rental-booking/services/receipt_parser"
	"rental-booking/services/reports"
	roomService "rental-booking/services/room"
	tenantService "rental-booking/services/tenant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()
	eps, _ := cfg.Epsilon()

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       int(receiptService.MaxImageSize) + 1024*1024,
	})

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var roomLocker locker.RoomLocker = locker.NewLocalLocker()
	if cfg.RedisAddr != "" {
		client, err := locker.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to redis", err)
			os.Exit(1)
		}
		defer client.Close()
		roomLocker = locker.NewRedisLocker(client, cfg.RoomLockTTL)
	} else {
		logger.Info("REDIS_ADDR not set, room locks are local to this process")
	}

	receipts, err := receiptService.NewService(ctx, db, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize receipt parser", err)
		os.Exit(1)
	}

	rates := exchange_rate.NewService(db)
	l := ledger.New(db, eps)
	svc := routes.Services{
		Bookings: bookingService.NewService(db, l, rates, roomLocker, loc),
		Ledger:   l,
		Rates:    rates,
		Rooms:    roomService.NewService(db),
		Tenants:  tenantService.NewService(db),
		Reports:  reports.NewService(db, eps, loc),
		Receipts: receipts,
	}

	middleware.SetKeySource(middleware.NewKeySource(cfg.PublicKeyURL))

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.FrontendURL != "*",
	}))

	routes.SetupRoutes(app, db, svc, asyncLogger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success(fmt.Sprintf("Server is running on %s (timezone %s)", cfg.Addr(), loc) +
		"\n\t\t\t\t\t\t******************************************************************************************\n")
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Error("Server stopped", err)
	}
	asyncLogger.Close()
}
