package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	config "github.com/anjiri1684/trivia_api/configs"
	"github.com/anjiri1684/trivia_api/database"
	"github.com/anjiri1684/trivia_api/handlers"
	"github.com/anjiri1684/trivia_api/jobs"
	"github.com/anjiri1684/trivia_api/metrics"
	"github.com/anjiri1684/trivia_api/routes"
	"github.com/anjiri1684/trivia_api/services"
	"github.com/anjiri1684/trivia_api/websocket"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func newLogger(settings config.Settings) (*zap.Logger, error) {
	if settings.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	settings := config.Load()

	logger, err := newLogger(settings)
	if err != nil {
		log.Fatalf("🔥 Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.ConnectDB(settings, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	if settings.SeedData {
		if err := database.SeedTrivia(db, logger); err != nil {
			logger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	c := cron.New()
	inventory := &jobs.InventoryJob{DB: db, Log: logger}
	if _, err := jobs.ScheduleInventory(c, settings.InventoryCron, inventory); err != nil {
		logger.Fatal("Failed to schedule inventory job", zap.Error(err))
	}
	c.Start()
	defer c.Stop()
	logger.Info("Inventory job scheduled", zap.String("schedule", settings.InventoryCron))

	m := metrics.New()
	app := routes.NewApp(routes.Deps{
		Settings: settings,
		Log:      logger,
		Handler:  handlers.New(db, logger, hub, m, services.NewQuizSelector()),
		Hub:      hub,
		Metrics:  m,
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server is running", zap.String("port", settings.Port))
	if err := app.Listen(":" + settings.Port); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}
