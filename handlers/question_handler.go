package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dalewoodman1994/100-percent/services"
)

var validate = validator.New()

// QuestionSetQuery holds the supported query parameters of the
// question-set endpoint. Anything outside the allowed values is a 400.
type QuestionSetQuery struct {
	Mode     string `query:"mode" validate:"omitempty,oneof=quickfire hardmode"`
	Category string `query:"category" validate:"omitempty,oneof=flags"`
}

// QuizHandler serves question sets from the injected cache and builder.
type QuizHandler struct {
	cache    *services.CountryCache
	builder  *services.QuestionService
	syncLoad bool
	log      *zap.Logger
}

// NewQuizHandler creates the quiz handler. With syncLoad enabled a request
// hitting an empty cache loads it in place; disabled, it gets a 503 until
// the background refresh has run.
func NewQuizHandler(cache *services.CountryCache, builder *services.QuestionService, syncLoad bool, log *zap.Logger) *QuizHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizHandler{
		cache:    cache,
		builder:  builder,
		syncLoad: syncLoad,
		log:      log,
	}
}

// HandleQuestionSet handles GET /api/questionset
// Query params: mode (quickfire|hardmode, default quickfire),
// category (flags only, default flags).
func (h *QuizHandler) HandleQuestionSet(c *fiber.Ctx) error {
	var query QuestionSetQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query parameters"})
	}

	if query.Mode == "" {
		query.Mode = services.ModeQuickfire
	}
	if query.Category == "" {
		query.Category = services.CategoryFlags
	}
	if err := validate.Struct(query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if h.syncLoad {
		if err := h.cache.EnsureLoaded(c.Context()); err != nil {
			h.log.Error("loading country data failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}

	pool, err := h.cache.Countries()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "country data not loaded yet, try again shortly"})
	}

	set, err := h.builder.BuildSet(query.Mode, pool)
	if err != nil {
		h.log.Error("building question set failed",
			zap.String("mode", query.Mode),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(set)
}

// HandleHealth handles GET /health
func (h *QuizHandler) HandleHealth(c *fiber.Ctx) error {
	status := "ok"
	if !h.cache.Ready() {
		status = "loading"
	}

	var lastRefresh any
	if t := h.cache.LastRefresh(); !t.IsZero() {
		lastRefresh = t
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"countries":   h.cache.Count(),
		"lastRefresh": lastRefresh,
	})
}
