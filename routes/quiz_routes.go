package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dalewoodman1994/100-percent/handlers"
	"github.com/dalewoodman1994/100-percent/middleware"
)

func QuizRoutes(app *fiber.App, h *handlers.QuizHandler) {
	api := app.Group("/api", middleware.NoCache())

	api.Get("/questionset", h.HandleQuestionSet)

	app.Get("/health", h.HandleHealth)
}
