package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/anjiri1684/trivia_api/database"
	"github.com/anjiri1684/trivia_api/metrics"
	"github.com/anjiri1684/trivia_api/services"
	"github.com/anjiri1684/trivia_api/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// QuestionFeed receives an event for every question mutation.
type QuestionFeed interface {
	Publish(event websocket.Event)
}

// Handler carries everything the route handlers need. It is built once in
// main and shared by all requests.
type Handler struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Feed    QuestionFeed
	Metrics *metrics.Metrics
	Quiz    *services.QuizSelector
}

func New(db *gorm.DB, log *zap.Logger, feed QuestionFeed, m *metrics.Metrics, quiz *services.QuizSelector) *Handler {
	return &Handler{DB: db, Log: log, Feed: feed, Metrics: m, Quiz: quiz}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if err := database.Ping(h.DB); err != nil {
		h.Log.Error("Health check failed", zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func parseBody(c *fiber.Ctx, op string, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest(op, "Cannot parse JSON")
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
