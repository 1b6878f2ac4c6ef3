package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mcpward/mcpward/internal/scopes"
	"github.com/mcpward/mcpward/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthorizationServerMetadata struct {
	Issuer                        string   `json:"issuer"`
	AuthorizationEndpoint         string   `json:"authorization_endpoint"`
	TokenEndpoint                 string   `json:"token_endpoint"`
	JwksURI                       string   `json:"jwks_uri"`
	ScopesSupported               []string `json:"scopes_supported"`
	ResponseTypesSupported        []string `json:"response_types_supported"`
	GrantTypesSupported           []string `json:"grant_types_supported"`
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported"`
}

type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	ScopesSupported        []string `json:"scopes_supported"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
}

type WellKnownControllerConfig struct {
	AppURL   string
	Issuer   string
	Resource string
}

type WellKnownController struct {
	config   WellKnownControllerConfig
	engine   *gin.Engine
	jwt      *service.JWTService
	registry *scopes.Registry
}

func NewWellKnownController(config WellKnownControllerConfig, engine *gin.Engine, jwt *service.JWTService, registry *scopes.Registry) *WellKnownController {
	return &WellKnownController{
		config:   config,
		engine:   engine,
		jwt:      jwt,
		registry: registry,
	}
}

func (controller *WellKnownController) SetupRoutes() {
	controller.engine.GET("/.well-known/oauth-authorization-server", controller.authorizationServerMetadata)
	controller.engine.GET("/.well-known/oauth-protected-resource", controller.protectedResourceMetadata)
	controller.engine.GET("/.well-known/jwks.json", controller.jwks)
}

func (controller *WellKnownController) authorizationServerMetadata(c *gin.Context) {
	baseURL := strings.TrimSuffix(controller.config.AppURL, "/")

	c.JSON(http.StatusOK, AuthorizationServerMetadata{
		Issuer:                        controller.config.Issuer,
		AuthorizationEndpoint:         fmt.Sprintf("%s/api/oauth/authorize", baseURL),
		TokenEndpoint:                 fmt.Sprintf("%s/api/oauth/token", baseURL),
		JwksURI:                       fmt.Sprintf("%s/.well-known/jwks.json", baseURL),
		ScopesSupported:               controller.registry.Names(),
		ResponseTypesSupported:        []string{"code"},
		GrantTypesSupported:           []string{"authorization_code", "refresh_token"},
		CodeChallengeMethodsSupported: []string{"S256", "plain"},
	})
}

func (controller *WellKnownController) protectedResourceMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, ProtectedResourceMetadata{
		Resource:               controller.config.Resource,
		AuthorizationServers:   []string{controller.config.Issuer},
		ScopesSupported:        controller.registry.Names(),
		BearerMethodsSupported: []string{"header"},
	})
}

func (controller *WellKnownController) jwks(c *gin.Context) {
	c.JSON(http.StatusOK, controller.jwt.ExportJWKS())
}
