package main

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	config "github.com/dalewoodman1994/100-percent/configs"
	"github.com/dalewoodman1994/100-percent/handlers"
	"github.com/dalewoodman1994/100-percent/jobs"
	"github.com/dalewoodman1994/100-percent/logger"
	"github.com/dalewoodman1994/100-percent/routes"
	"github.com/dalewoodman1994/100-percent/services"
	"github.com/dalewoodman1994/100-percent/utils"
)

func main() {
	appLog, err := logger.New(config.ConfigOr("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("🔥 Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	quizCfg, err := config.LoadQuizConfig(config.Config("QUIZ_CONFIG_PATH"))
	if err != nil {
		appLog.Fatal("Failed to load quiz config", zap.Error(err))
	}

	fetcher := services.NewRestCountriesClient(
		config.ConfigOr("COUNTRIES_API_BASE_URL", "https://restcountries.com"),
		config.ConfigOr("FLAG_CDN_BASE_URL", "https://flagcdn.com"),
	)
	cache := services.NewCountryCache(fetcher, appLog)
	tiers := services.NewTierClassifier(quizCfg.Tiers)
	builder := services.NewQuestionService(tiers, quizCfg, utils.NewSeededRand())

	refresh := jobs.RefreshCountries(cache, appLog)
	go refresh()

	c := cron.New()
	if _, err := c.AddFunc(config.ConfigOr("REFRESH_CRON", "0 */6 * * *"), refresh); err != nil {
		appLog.Fatal("Invalid REFRESH_CRON expression", zap.Error(err))
	}
	go c.Start()
	appLog.Info("✅ Cron job for country refresh scheduled successfully")

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "100 Percent",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		JSONEncoder:   sonic.Marshal,
		JSONDecoder:   sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			appLog.Error("Unhandled request error",
				zap.Int("code", code),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
		MaxAge:       86400,
	}))

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	h := handlers.NewQuizHandler(cache, builder, config.ConfigBool("SYNC_LOAD", true), appLog)
	routes.QuizRoutes(app, h)

	app.Static("/", "./public")

	port := config.ConfigOr("PORT", "8080")
	appLog.Info("✅ Server is running", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		appLog.Fatal("🔥 Server failed to start", zap.Error(err))
	}
}
