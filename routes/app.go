package routes

import (
	"time"

	config "github.com/anjiri1684/trivia_api/configs"
	"github.com/anjiri1684/trivia_api/handlers"
	"github.com/anjiri1684/trivia_api/metrics"
	"github.com/anjiri1684/trivia_api/middleware"
	"github.com/anjiri1684/trivia_api/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps is the application context shared by every route.
type Deps struct {
	Settings config.Settings
	Log      *zap.Logger
	Handler  *handlers.Handler
	Hub      *websocket.Hub
	Metrics  *metrics.Metrics
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:           "Trivia API",
		CaseSensitive:     true,
		EnablePrintRoutes: d.Settings.IsDevelopment(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler:      handlers.ErrorHandler(d.Log),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.CORS(d.Settings.CORSOrigins))
	// metrics wraps recover so recovered panics are counted as 500s
	app.Use(d.Metrics.Middleware())
	app.Use(recover.New())
	app.Use(middleware.AccessLog())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Trivia API",
		})
	})
	app.Get("/health", d.Handler.Health)
	app.Get("/metrics", d.Metrics.Handler())

	TriviaRoutes(app, d.Handler)
	FeedRoutes(app, d.Hub)

	return app
}
