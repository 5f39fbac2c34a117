package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/andreyxaxa/Fitness-Center/config"
	"github.com/andreyxaxa/Fitness-Center/docs"
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/middleware"
	v1 "github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Fitness-Center/internal/usecase"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const _healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// @title Fitness Center
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	db Pinger,
	owners middleware.OwnerResolver,
	tr usecase.TransformationUseCase,
	rec usecase.RecommendationUseCase,
	l logger.Interface,
) {
	// Metrics
	if cfg.Metrics.Enabled {
		app.Use(middleware.Metrics())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Health
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(ctx.UserContext(), _healthTimeout)
		defer cancel()

		if err := db.Ping(pingCtx); err != nil {
			l.Warn("restapi - healthz - db.Ping: %v", err)
			return ctx.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "fail"})
		}

		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	// Swagger
	if cfg.Swagger.Enabled {
		// registered before the UI route, which would look for a swag registry
		app.Get("/swagger/doc.json", func(ctx *fiber.Ctx) error {
			ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return ctx.Send(docs.SwaggerJSON)
		})
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1", middleware.Identity(owners))
	{
		v1.NewRoutes(apiV1Group, tr, rec, l, cfg.ImageStore.MaxUploadBytes)
	}
}
