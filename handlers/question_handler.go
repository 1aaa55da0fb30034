package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/trivia_api/models"
	"github.com/anjiri1684/trivia_api/utils"
	"github.com/anjiri1684/trivia_api/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
	Category   int    `json:"category" validate:"required,min=1"`
}

type SearchRequest struct {
	SearchTerm string `json:"search_term"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchCondition matches question text case-insensitively. SQLite's LOWER
// only folds ASCII, so non-ASCII case folding is postgres-only.
func searchCondition(dialect string) string {
	if dialect == "postgres" {
		return `question ILIKE ? ESCAPE '\'`
	}
	return `LOWER(question) LIKE ? ESCAPE '\'`
}

func (h *Handler) allQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := h.DB.Order("id").Find(&questions).Error
	return questions, err
}

func (h *Handler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.allQuestions()
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	current := utils.Paginate(c.QueryInt("page", 1), models.FormatQuestions(questions))
	if len(current) == 0 {
		return notFound("list questions page %d", c.QueryInt("page", 1))
	}

	var categories []models.Category
	if err := h.DB.Order("id").Find(&categories).Error; err != nil {
		return fmt.Errorf("list questions categories: %w", err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"questions":        current,
		"total_questions":  len(questions),
		"categories":       models.FormatCategories(categories),
		"current_category": nil,
	})
}

func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil {
		return notFound("delete question")
	}

	var question models.Question
	if err := h.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("delete question %d", questionID)
		}
		return unprocessable("delete question lookup", err)
	}

	result := h.DB.Delete(&question)
	if result.Error != nil {
		return unprocessable("delete question", result.Error)
	}
	if result.RowsAffected == 0 {
		// deleted by a concurrent request between lookup and delete
		return notFound("delete question %d", questionID)
	}

	h.Metrics.QuestionsDeleted.Inc()
	h.Feed.Publish(websocket.Event{Event: websocket.EventQuestionDeleted, QuestionID: questionID})
	h.Log.Info("Question deleted", zap.Int("question_id", questionID))

	remaining, err := h.allQuestions()
	if err != nil {
		return unprocessable("delete question reload", err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"deleted_question": questionID,
		"questions":        utils.Paginate(c.QueryInt("page", 1), models.FormatQuestions(remaining)),
		"total_questions":  len(remaining),
	})
}

func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := parseBody(c, "create question", &req); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return badRequest("create question", validationMessage(err))
	}

	question := models.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Category:   req.Category,
	}
	if err := h.DB.Create(&question).Error; err != nil {
		return unprocessable("create question", err)
	}

	posted := question.Format()
	h.Metrics.QuestionsCreated.Inc()
	h.Feed.Publish(websocket.Event{Event: websocket.EventQuestionCreated, QuestionID: question.ID, Question: &posted})
	h.Log.Info("Question created", zap.Int("question_id", question.ID), zap.Int("category", question.Category))

	questions, err := h.allQuestions()
	if err != nil {
		return unprocessable("create question reload", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"posted":          posted,
		"questions":       utils.Paginate(c.QueryInt("page", 1), models.FormatQuestions(questions)),
		"total_questions": len(questions),
	})
}

func (h *Handler) SearchQuestions(c *fiber.Ctx) error {
	var req SearchRequest
	if err := parseBody(c, "search questions", &req); err != nil {
		return err
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(req.SearchTerm)) + "%"

	var questions []models.Question
	if err := h.DB.Where(searchCondition(h.DB.Dialector.Name()), pattern).Order("id").Find(&questions).Error; err != nil {
		return unprocessable("search questions", err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"questions":        utils.Paginate(c.QueryInt("page", 1), models.FormatQuestions(questions)),
		"total_questions":  len(questions),
		"current_category": nil,
	})
}
