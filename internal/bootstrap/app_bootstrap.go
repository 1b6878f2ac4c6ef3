package bootstrap

import (
	"fmt"
	"time"

	"github.com/mcpward/mcpward/internal/config"
	"github.com/mcpward/mcpward/internal/scopes"
	"github.com/mcpward/mcpward/internal/utils"

	"github.com/rs/zerolog/log"
)

type BootstrapApp struct {
	config  config.Config
	context struct {
		users    []config.User
		issuer   string
		resource string
		registry *scopes.Registry
	}
	services Services
}

func NewBootstrapApp(config config.Config) *BootstrapApp {
	return &BootstrapApp{
		config: config,
	}
}

func (app *BootstrapApp) Setup() error {
	users, err := utils.GetUsers(app.config.Users, app.config.UsersFile)

	if err != nil {
		return fmt.Errorf("failed to parse users: %w", err)
	}

	if len(users) == 0 {
		return fmt.Errorf("no users configured")
	}

	app.context.users = users
	app.context.issuer = app.config.AppURL
	app.context.resource = app.config.ResourceURL

	if app.context.resource == "" {
		app.context.resource = app.config.AppURL
	}

	app.context.registry = scopes.DefaultRegistry()

	log.Trace().Interface("users", app.context.users).Msg("Users dump")

	services, err := app.initServices()

	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	app.services = services

	router, err := app.setupRouter()

	if err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	log.Debug().Msg("Starting store cleanup routine")
	go app.storeCleanup()

	address := fmt.Sprintf("%s:%d", app.config.Address, app.config.Port)
	log.Info().Msgf("Starting server on %s", address)
	if err := router.Run(address); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	return nil
}

// storeCleanup periodically deletes expired codes and tokens. Redemption and
// validation already exclude expired rows, this only keeps the tables small.
func (app *BootstrapApp) storeCleanup() {
	ticker := time.NewTicker(time.Duration(30) * time.Minute)
	defer ticker.Stop()

	for ; true; <-ticker.C {
		log.Debug().Msg("Cleaning up expired codes and tokens")

		if _, err := app.services.codeService.CleanupExpired(); err != nil {
			log.Error().Err(err).Msg("Failed to clean up expired authorization codes")
		}

		if _, _, err := app.services.tokenService.CleanupExpired(); err != nil {
			log.Error().Err(err).Msg("Failed to clean up expired tokens")
		}

		if _, err := app.services.staticTokenService.CleanupExpired(); err != nil {
			log.Error().Err(err).Msg("Failed to clean up expired static tokens")
		}
	}
}
