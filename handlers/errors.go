package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error kinds. Handlers return them wrapped in *Error; the ErrorHandler maps
// each kind to its status code.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable")
)

const (
	messageBadRequest    = "bad request"
	messageNotFound      = "Sorry, couldn't find a resource matching your request. Please check the URL and the parameters if entered"
	messageUnprocessable = "Sorry, couldn't process your request. Please check the request and try again later"
	messageInternal      = "internal server error"
)

type Error struct {
	Kind error
	// Detail is shown to the client; only set for bad requests.
	Detail string
	Cause  error
	Op     string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func badRequest(op, detail string) error {
	return &Error{Kind: ErrBadRequest, Op: op, Detail: detail}
}

func notFound(op string, args ...interface{}) error {
	if len(args) > 0 {
		op = fmt.Sprintf(op, args...)
	}
	return &Error{Kind: ErrNotFound, Op: op}
}

func unprocessable(op string, cause error) error {
	return &Error{Kind: ErrUnprocessable, Op: op, Cause: cause}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func resolve(err error) (int, string) {
	var apiErr *Error
	switch {
	case errors.Is(err, ErrBadRequest):
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return fiber.StatusBadRequest, apiErr.Detail
		}
		return fiber.StatusBadRequest, messageBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound, messageNotFound
	case errors.Is(err, ErrUnprocessable):
		return fiber.StatusUnprocessableEntity, messageUnprocessable
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusBadRequest:
			return fe.Code, messageBadRequest
		case fiber.StatusNotFound:
			return fe.Code, messageNotFound
		case fiber.StatusUnprocessableEntity:
			return fe.Code, messageUnprocessable
		}
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, messageInternal
}

// ErrorHandler renders every error as {success: false, error, message}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := resolve(err)

		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		switch {
		case code >= fiber.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case code == fiber.StatusUnprocessableEntity:
			log.Warn("Request unprocessable", fields...)
		default:
			log.Debug("Request rejected", fields...)
		}

		return c.Status(code).JSON(ErrorResponse{
			Success: false,
			Error:   code,
			Message: message,
		})
	}
}
