package api

import (
	"errors"

	"finn-mini/docs"
	"finn-mini/internal/api/handlers"
	"finn-mini/pkg/auth"
	"finn-mini/pkg/config"
	"finn-mini/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface. A nil jwtManager leaves /chat open;
// a nil serverCfg keeps Fiber's default timeouts.
func SetupRouter(
	serverCfg *config.ServerConfig,
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	fiberCfg := fiber.Config{
		AppName: "finn-mini",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	}
	if serverCfg != nil {
		fiberCfg.ReadTimeout = serverCfg.ReadTimeout
		fiberCfg.WriteTimeout = serverCfg.WriteTimeout
	}
	app := fiber.New(fiberCfg)

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders: middleware.HeaderRequestID,
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// importing docs registers the swagger document through its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", healthHandler.Health)

	if jwtManager != nil {
		app.Post("/chat", middleware.AuthMiddleware(jwtManager, appLogger), chatHandler.Chat)
	} else {
		appLogger.Warn("JWT_SECRET_KEY not set, /chat is unauthenticated")
		app.Post("/chat", chatHandler.Chat)
	}

	return app
}
