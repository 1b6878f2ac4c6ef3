package controller

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcpward/mcpward/internal/config"
	"github.com/mcpward/mcpward/internal/pkce"
	"github.com/mcpward/mcpward/internal/scopes"
	"github.com/mcpward/mcpward/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AuthorizeRequest struct {
	ClientID            string `form:"client_id" url:"client_id"`
	RedirectURI         string `form:"redirect_uri" url:"redirect_uri"`
	ResponseType        string `form:"response_type" url:"response_type"`
	Scope               string `form:"scope" url:"scope"`
	State               string `form:"state" url:"state"`
	CodeChallenge       string `form:"code_challenge" url:"code_challenge"`
	CodeChallengeMethod string `form:"code_challenge_method" url:"code_challenge_method"`
	UserID              string `form:"user_id" url:"user_id"`
	Approved            string `form:"approved" url:"approved"`
}

type TokenRequest struct {
	GrantType    string `form:"grant_type" url:"grant_type"`
	Code         string `form:"code" url:"code"`
	RedirectURI  string `form:"redirect_uri" url:"redirect_uri"`
	ClientID     string `form:"client_id" url:"client_id"`
	ClientSecret string `form:"client_secret" url:"client_secret"`
	CodeVerifier string `form:"code_verifier" url:"code_verifier"`
	RefreshToken string `form:"refresh_token" url:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

type OAuthControllerConfig struct {
	AppURL string
}

type OAuthController struct {
	config   OAuthControllerConfig
	router   *gin.RouterGroup
	clients  *service.ClientService
	codes    *service.CodeService
	tokens   *service.TokenService
	jwt      *service.JWTService
	users    service.UserProvider
	registry *scopes.Registry
}

func NewOAuthController(config OAuthControllerConfig, router *gin.RouterGroup, clients *service.ClientService, codes *service.CodeService, tokens *service.TokenService, jwt *service.JWTService, users service.UserProvider, registry *scopes.Registry) *OAuthController {
	return &OAuthController{
		config:   config,
		router:   router,
		clients:  clients,
		codes:    codes,
		tokens:   tokens,
		jwt:      jwt,
		users:    users,
		registry: registry,
	}
}

func (controller *OAuthController) SetupRoutes() {
	oauthGroup := controller.router.Group("/oauth")
	oauthGroup.GET("/authorize", controller.authorizeHandler)
	oauthGroup.POST("/authorize", controller.authorizeHandler)
	oauthGroup.POST("/token", controller.tokenHandler)
	oauthGroup.GET("/jwks", controller.jwksHandler)
}

func (controller *OAuthController) jwksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, controller.jwt.ExportJWKS())
}

func (controller *OAuthController) authorizeHandler(c *gin.Context) {
	var req AuthorizeRequest

	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "Malformed request",
		})
		return
	}

	// Errors are JSON until the redirect URI has been validated, redirects
	// after
	if req.ClientID == "" || req.RedirectURI == "" || req.ResponseType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "Missing required parameters",
		})
		return
	}

	client, err := controller.clients.GetClient(req.ClientID)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_client",
			"error_description": "Client not found",
		})
		return
	}

	if !controller.clients.ValidateRedirectURI(req.ClientID, req.RedirectURI) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "Invalid redirect_uri",
		})
		return
	}

	if req.ResponseType != "code" {
		controller.redirectError(c, req.RedirectURI, req.State, "unsupported_response_type", "Only the code response type is supported")
		return
	}

	requested := scopes.Split(req.Scope)

	if !controller.registry.Validate(requested) {
		controller.redirectError(c, req.RedirectURI, req.State, "invalid_scope", "Unknown scope requested")
		return
	}

	if req.CodeChallenge != "" && req.CodeChallengeMethod != pkce.MethodS256 && req.CodeChallengeMethod != pkce.MethodPlain {
		controller.redirectError(c, req.RedirectURI, req.State, "invalid_request", "Unsupported code_challenge_method")
		return
	}

	user, ok := controller.users.GetUser(req.UserID)

	if !ok {
		controller.redirectError(c, req.RedirectURI, req.State, "access_denied", "Unknown user")
		return
	}

	granted := controller.registry.ForRoles(user.Roles)

	if len(requested) == 0 {
		requested = granted
	}

	grantable := controller.registry.Filter(requested, granted)

	if len(grantable) == 0 {
		controller.redirectError(c, req.RedirectURI, req.State, "access_denied", "No grantable scopes")
		return
	}

	// The consent screen lives outside this service. A GET describes the
	// authorization request for it, a POST carries the approval decision back.
	if c.Request.Method == http.MethodGet {
		available := controller.registry.Available()
		descriptions := make(map[string]string, len(grantable))
		for _, scope := range grantable {
			descriptions[scope] = available[scope]
		}

		c.JSON(http.StatusOK, gin.H{
			"client_id":    client.ClientID,
			"client_name":  client.Name,
			"username":     user.Username,
			"scopes":       grantable,
			"descriptions": descriptions,
		})
		return
	}

	if req.Approved != "true" {
		controller.redirectError(c, req.RedirectURI, req.State, "access_denied", "User denied the request")
		return
	}

	code, err := controller.codes.Issue(req.ClientID, user.ID, req.RedirectURI, grantable, req.CodeChallenge, req.CodeChallengeMethod)

	if err != nil {
		log.Error().Err(err).Msg("Failed to issue authorization code")
		controller.redirectError(c, req.RedirectURI, req.State, "server_error", "Internal server error")
		return
	}

	redirectURL, err := url.Parse(req.RedirectURI)

	if err != nil {
		controller.redirectError(c, req.RedirectURI, req.State, "invalid_request", "Invalid redirect_uri")
		return
	}

	query := redirectURL.Query()
	query.Set("code", code)
	if req.State != "" {
		query.Set("state", req.State)
	}
	redirectURL.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, redirectURL.String())
}

func (controller *OAuthController) tokenHandler(c *gin.Context) {
	var req TokenRequest

	if err := c.ShouldBind(&req); err != nil {
		controller.tokenError(c, http.StatusBadRequest, "invalid_request", "Malformed request")
		return
	}

	// Basic auth wins over form credentials
	if clientID, clientSecret, ok := controller.basicClientCredentials(c); ok {
		req.ClientID = clientID
		req.ClientSecret = clientSecret
	}

	switch req.GrantType {
	case "authorization_code":
		controller.authorizationCodeGrant(c, req)
	case "refresh_token":
		controller.refreshTokenGrant(c, req)
	case "":
		controller.tokenError(c, http.StatusBadRequest, "invalid_request", "Missing grant_type")
	default:
		controller.tokenError(c, http.StatusBadRequest, "unsupported_grant_type", "Unsupported grant_type")
	}
}

func (controller *OAuthController) authorizationCodeGrant(c *gin.Context, req TokenRequest) {
	if req.Code == "" || req.RedirectURI == "" {
		controller.tokenError(c, http.StatusBadRequest, "invalid_request", "Missing code or redirect_uri")
		return
	}

	if !controller.clients.VerifyClientSecret(req.ClientID, req.ClientSecret) {
		controller.tokenError(c, http.StatusUnauthorized, "invalid_client", "Invalid client credentials")
		return
	}

	code, err := controller.codes.Redeem(req.Code)

	if err != nil {
		if !errors.Is(err, service.ErrInvalidGrant) {
			log.Error().Err(err).Msg("Failed to redeem authorization code")
			controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
			return
		}
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Invalid or expired authorization code")
		return
	}

	if code.ClientID != req.ClientID {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Authorization code was issued to another client")
		return
	}

	if code.RedirectURI != req.RedirectURI {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "redirect_uri mismatch")
		return
	}

	if code.CodeChallenge != "" && req.CodeVerifier == "" {
		controller.tokenError(c, http.StatusBadRequest, "invalid_request", "Missing code_verifier")
		return
	}

	if !pkce.Verify(code.CodeChallenge, code.CodeChallengeMethod, req.CodeVerifier) {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Invalid code_verifier")
		return
	}

	user, ok := controller.users.GetUser(code.UserID)

	if !ok {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Unknown user")
		return
	}

	controller.issueTokens(c, code.ClientID, user, scopes.Split(code.Scopes))
}

func (controller *OAuthController) refreshTokenGrant(c *gin.Context, req TokenRequest) {
	if req.RefreshToken == "" {
		controller.tokenError(c, http.StatusBadRequest, "invalid_request", "Missing refresh_token")
		return
	}

	if !controller.clients.VerifyClientSecret(req.ClientID, req.ClientSecret) {
		controller.tokenError(c, http.StatusUnauthorized, "invalid_client", "Invalid client credentials")
		return
	}

	refresh, err := controller.tokens.GetValidRefreshToken(req.RefreshToken)

	if err != nil {
		if !errors.Is(err, service.ErrInvalidGrant) {
			log.Error().Err(err).Msg("Failed to look up refresh token")
			controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
			return
		}
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Invalid or expired refresh token")
		return
	}

	if refresh.ClientID != req.ClientID {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Refresh token was issued to another client")
		return
	}

	user, ok := controller.users.GetUser(refresh.UserID)

	if !ok {
		controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Unknown user")
		return
	}

	jti := uuid.New().String()
	grantedScopes := scopes.Split(refresh.Scopes)

	accessToken, err := controller.jwt.Issue(jti, user.ID, refresh.ClientID, grantedScopes, user.Username, user.Roles)

	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	pair, err := controller.tokens.Rotate(refresh, jti)

	if err != nil {
		if errors.Is(err, service.ErrInvalidGrant) {
			controller.tokenError(c, http.StatusBadRequest, "invalid_grant", "Invalid or expired refresh token")
			return
		}
		log.Error().Err(err).Msg("Failed to rotate refresh token")
		controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    controller.tokens.AccessTokenExpiry(),
		RefreshToken: pair.RefreshToken,
		Scope:        refresh.Scopes,
	})
}

func (controller *OAuthController) issueTokens(c *gin.Context, clientID string, user config.User, grantedScopes []string) {
	jti := uuid.New().String()

	accessToken, err := controller.jwt.Issue(jti, user.ID, clientID, grantedScopes, user.Username, user.Roles)

	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	pair, err := controller.tokens.IssuePair(jti, clientID, user.ID, scopes.Join(grantedScopes))

	if err != nil {
		log.Error().Err(err).Msg("Failed to persist token pair")
		controller.tokenError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    controller.tokens.AccessTokenExpiry(),
		RefreshToken: pair.RefreshToken,
		Scope:        scopes.Join(grantedScopes),
	})
}

// Helper functions

func (controller *OAuthController) redirectError(c *gin.Context, redirectURI string, state string, errorCode string, errorDescription string) {
	redirectURL, err := url.Parse(redirectURI)

	if err != nil || redirectURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             errorCode,
			"error_description": errorDescription,
		})
		return
	}

	query := redirectURL.Query()
	query.Set("error", errorCode)
	query.Set("error_description", errorDescription)
	if state != "" {
		query.Set("state", state)
	}
	redirectURL.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, redirectURL.String())
}

func (controller *OAuthController) tokenError(c *gin.Context, status int, errorCode string, errorDescription string) {
	c.JSON(status, gin.H{
		"error":             errorCode,
		"error_description": errorDescription,
	})
}

// basicClientCredentials extracts client_secret_basic credentials. Query
// parameters are never accepted, they leak into access logs and referrers.
func (controller *OAuthController) basicClientCredentials(c *gin.Context) (string, string, bool) {
	authHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, "Basic "))

	if err != nil {
		return "", "", false
	}

	parts := strings.SplitN(string(decoded), ":", 2)

	if len(parts) != 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}
