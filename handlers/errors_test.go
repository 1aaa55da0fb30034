package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestResolveKinds(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"bad request with detail", badRequest("create question", "answer is required"), 400, "answer is required"},
		{"bad request without detail", &Error{Kind: ErrBadRequest}, 400, messageBadRequest},
		{"not found", notFound("delete question %d", 7), 404, messageNotFound},
		{"wrapped not found", fmt.Errorf("outer: %w", notFound("x")), 404, messageNotFound},
		{"unprocessable", unprocessable("create question", cause), 422, messageUnprocessable},
		{"fiber not found", fiber.ErrNotFound, 404, messageNotFound},
		{"fiber upgrade required", fiber.ErrUpgradeRequired, 426, fiber.ErrUpgradeRequired.Message},
		{"untagged", cause, 500, messageInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := resolve(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestErrorKeepsCauseReachable(t *testing.T) {
	cause := errors.New("disk full")
	err := unprocessable("create question", cause)

	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "create question: unprocessable: disk full", err.Error())
}

func TestNotFoundFormatsOp(t *testing.T) {
	err := notFound("questions by category %d", 3)
	assert.Equal(t, "questions by category 3: not found", err.Error())
}
