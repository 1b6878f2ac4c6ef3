package bootstrap

import (
	"fmt"
	"strings"

	"github.com/mcpward/mcpward/internal/controller"
	"github.com/mcpward/mcpward/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (app *BootstrapApp) setupRouter() (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(app.config.TrustedProxies) > 0 {
		err := engine.SetTrustedProxies(strings.Split(app.config.TrustedProxies, ","))

		if err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	zerologMiddleware := middleware.NewZerologMiddleware()

	if err := zerologMiddleware.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize zerolog middleware: %w", err)
	}

	engine.Use(zerologMiddleware.Middleware())

	apiRouter := engine.Group("/api")

	wellKnownController := controller.NewWellKnownController(controller.WellKnownControllerConfig{
		AppURL:   app.config.AppURL,
		Issuer:   app.context.issuer,
		Resource: app.context.resource,
	}, engine, app.services.jwtService, app.context.registry)

	wellKnownController.SetupRoutes()

	oauthController := controller.NewOAuthController(controller.OAuthControllerConfig{
		AppURL: app.config.AppURL,
	}, apiRouter, app.services.clientService, app.services.codeService, app.services.tokenService, app.services.jwtService, app.services.userService, app.context.registry)

	oauthController.SetupRoutes()

	healthController := controller.NewHealthController(apiRouter)

	healthController.SetupRoutes()

	authMiddleware := middleware.NewAuthMiddleware(app.services.authService)

	if err := authMiddleware.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize auth middleware: %w", err)
	}

	protectedRouter := engine.Group("/api", authMiddleware.Middleware())

	contextController := controller.NewContextController(protectedRouter)

	contextController.SetupRoutes()

	return engine, nil
}
