package handlers

import (
	"fmt"

	"github.com/anjiri1684/trivia_api/models"
	"github.com/anjiri1684/trivia_api/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.Order("id").Find(&categories).Error; err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"categories":           models.FormatCategories(categories),
		"number_of_categories": len(categories),
	})
}

func (h *Handler) ListQuestionsByCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return notFound("questions by category")
	}

	var questions []models.Question
	if err := h.DB.Where("category = ?", categoryID).Order("id").Find(&questions).Error; err != nil {
		return fmt.Errorf("questions by category %d: %w", categoryID, err)
	}

	current := utils.Paginate(c.QueryInt("page", 1), models.FormatQuestions(questions))
	if len(current) == 0 {
		return notFound("questions by category %d", categoryID)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"questions":        current,
		"total_questions":  len(questions),
		"current_category": categoryID,
	})
}
