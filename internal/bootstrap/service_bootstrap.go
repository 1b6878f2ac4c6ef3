package bootstrap

import (
	"github.com/mcpward/mcpward/internal/service"
)

type Services struct {
	databaseService    *service.DatabaseService
	clientService      *service.ClientService
	codeService        *service.CodeService
	tokenService       *service.TokenService
	staticTokenService *service.StaticTokenService
	jwtService         *service.JWTService
	userService        *service.UserService
	authService        *service.AuthService
}

func (app *BootstrapApp) initServices() (Services, error) {
	services := Services{}

	databaseService := service.NewDatabaseService(service.DatabaseServiceConfig{
		DatabasePath: app.config.DatabasePath,
	})

	if err := databaseService.Init(); err != nil {
		return Services{}, err
	}

	services.databaseService = databaseService
	database := databaseService.GetDatabase()

	services.clientService = service.NewClientService(service.ClientServiceConfig{
		Database: database,
	})

	services.codeService = service.NewCodeService(service.CodeServiceConfig{
		CodeExpiry: app.config.CodeExpiry,
		Database:   database,
	})

	services.tokenService = service.NewTokenService(service.TokenServiceConfig{
		AccessTokenExpiry:  app.config.AccessTokenExpiry,
		RefreshTokenExpiry: app.config.RefreshTokenExpiry,
		Database:           database,
	})

	services.staticTokenService = service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: database,
	})

	jwtService := service.NewJWTService(service.JWTServiceConfig{
		Issuer:            app.context.issuer,
		Audience:          app.context.resource,
		PrivateKeyPath:    app.config.PrivateKeyPath,
		PublicKeyPath:     app.config.PublicKeyPath,
		AccessTokenExpiry: app.config.AccessTokenExpiry,
		ClockSkew:         app.config.ClockSkew,
	})

	if err := jwtService.Init(); err != nil {
		return Services{}, err
	}

	services.jwtService = jwtService

	services.userService = service.NewUserService(service.UserServiceConfig{
		Users: app.context.users,
	})

	services.authService = service.NewAuthService(service.AuthServiceConfig{
		Realm:        app.config.Realm,
		Issuer:       app.context.issuer,
		OAuthEnabled: !app.config.DisableOAuth,
	}, jwtService, services.tokenService, services.staticTokenService, services.userService, app.context.registry)

	return services, nil
}
