package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/anjiri1684/trivia_api/models"
	"github.com/gofiber/fiber/v2"
)

// QuizCategory accepts a bare id (number or numeric string), the frontend's
// {"id": ..., "type": ...} object, or null. ID 0 means every category.
type QuizCategory struct {
	ID int
}

func (qc *QuizCategory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		qc.ID = 0
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if len(obj.ID) == 0 {
			qc.ID = 0
			return nil
		}
		data = obj.ID
	}

	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		qc.ID = id
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("quiz_category: %w", err)
	}
	if s == "" {
		qc.ID = 0
		return nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("quiz_category: %w", err)
	}
	qc.ID = id
	return nil
}

type QuizRequest struct {
	PreviousQuestions []int        `json:"previous_questions"`
	QuizCategory      QuizCategory `json:"quiz_category"`
}

func (h *Handler) PlayQuiz(c *fiber.Ctx) error {
	var req QuizRequest
	if err := parseBody(c, "play quiz", &req); err != nil {
		return err
	}
	if req.QuizCategory.ID < 0 {
		return badRequest("play quiz", "quiz_category must not be negative")
	}

	query := h.DB.Order("id")
	var playCategory *int
	if req.QuizCategory.ID > 0 {
		id := req.QuizCategory.ID
		playCategory = &id
		query = query.Where("category = ?", id)
	}

	var candidates []models.Question
	if err := query.Find(&candidates).Error; err != nil {
		return fmt.Errorf("quiz candidates: %w", err)
	}
	if len(candidates) == 0 {
		h.Metrics.QuizDraws.WithLabelValues("empty").Inc()
		return notFound("quiz candidates for category %d", req.QuizCategory.ID)
	}

	question, ok := h.Quiz.Pick(candidates, req.PreviousQuestions)
	if !ok {
		h.Metrics.QuizDraws.WithLabelValues("complete").Inc()
		return c.JSON(fiber.Map{
			"success":       true,
			"question":      nil,
			"quiz_complete": true,
			"play_category": playCategory,
		})
	}

	h.Metrics.QuizDraws.WithLabelValues("question").Inc()
	return c.JSON(fiber.Map{
		"success":       true,
		"question":      question.Format(),
		"quiz_complete": false,
		"play_category": playCategory,
	})
}
