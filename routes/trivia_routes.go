package routes

import (
	"github.com/anjiri1684/trivia_api/handlers"
	"github.com/gofiber/fiber/v2"
)

func TriviaRoutes(router fiber.Router, h *handlers.Handler) {
	router.Get("/categories", h.ListCategories)
	router.Get("/categories/:id<int>/questions", h.ListQuestionsByCategory)

	questions := router.Group("/questions")
	questions.Get("", h.ListQuestions)
	questions.Post("", h.CreateQuestion)
	questions.Delete("/:id<int>", h.DeleteQuestion)

	router.Post("/search_questions", h.SearchQuestions)
	router.Post("/quizzes", h.PlayQuiz)
}
