package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mcpward/mcpward/internal/config"
	"github.com/mcpward/mcpward/internal/scopes"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// staticTokenQueryParam is the query parameter carrying an opaque static
// token, for clients that cannot set headers.
const staticTokenQueryParam = "token"

type AuthServiceConfig struct {
	Realm        string
	Issuer       string
	OAuthEnabled bool
}

// AuthService is the request-level authentication manager. It extracts
// credentials, routes them to the JWT or static-token verifier and produces
// a Principal for the tool dispatcher.
type AuthService struct {
	config       AuthServiceConfig
	jwt          *JWTService
	tokens       *TokenService
	staticTokens *StaticTokenService
	users        UserProvider
	registry     *scopes.Registry
}

func NewAuthService(config AuthServiceConfig, jwt *JWTService, tokens *TokenService, staticTokens *StaticTokenService, users UserProvider, registry *scopes.Registry) *AuthService {
	return &AuthService{
		config:       config,
		jwt:          jwt,
		tokens:       tokens,
		staticTokens: staticTokens,
		users:        users,
		registry:     registry,
	}
}

// Authenticate resolves the request's credential into a Principal. A bearer
// credential takes the JWT path when OAuth is enabled; an invalid JWT is a
// hard rejection and never falls through to the static-token path.
func (auth *AuthService) Authenticate(r *http.Request) (config.Principal, error) {
	bearer := auth.extractBearer(r)

	if bearer != "" && auth.config.OAuthEnabled {
		return auth.authenticateJWT(bearer)
	}

	candidate := bearer
	if candidate == "" {
		candidate = r.URL.Query().Get(staticTokenQueryParam)
	}

	if candidate == "" {
		return config.Principal{}, ErrAuthRequired
	}

	return auth.authenticateStatic(candidate)
}

func (auth *AuthService) extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (auth *AuthService) authenticateJWT(token string) (config.Principal, error) {
	claims, err := auth.jwt.Validate(token)

	if err != nil {
		log.Debug().Err(err).Msg("Access token validation failed")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return config.Principal{}, ErrTokenExpired
		}
		return config.Principal{}, ErrInvalidToken
	}

	revoked, err := auth.tokens.IsAccessRevoked(claims.ID)

	if err != nil {
		return config.Principal{}, err
	}

	if revoked {
		return config.Principal{}, ErrTokenRevoked
	}

	return config.Principal{
		UserID:     claims.Subject,
		Username:   claims.Username,
		Roles:      claims.Roles,
		Scopes:     claims.Scopes(),
		ClientID:   claims.ClientID,
		AuthMethod: "oauth",
	}, nil
}

func (auth *AuthService) authenticateStatic(token string) (config.Principal, error) {
	record, err := auth.staticTokens.Authenticate(token)

	if err != nil {
		return config.Principal{}, err
	}

	user, ok := auth.users.GetUser(record.UserID)

	if !ok {
		log.Warn().Str("user_id", record.UserID).Msg("Static token references unknown user")
		return config.Principal{}, ErrUnknownUser
	}

	return config.Principal{
		UserID:     user.ID,
		Username:   user.Username,
		Roles:      user.Roles,
		Scopes:     auth.registry.ForRoles(user.Roles),
		AuthMethod: "token",
	}, nil
}

// ResourceMetadataURL is where protected-resource metadata lives. It is
// advertised in every challenge, even when OAuth is disabled.
func (auth *AuthService) ResourceMetadataURL() string {
	return strings.TrimSuffix(auth.config.Issuer, "/") + "/.well-known/oauth-protected-resource"
}

// Challenge builds the WWW-Authenticate header value for a rejection.
func (auth *AuthService) Challenge(reason string) string {
	return fmt.Sprintf(`Bearer realm=%q, resource_metadata=%q, error="invalid_token", error_description=%q`,
		auth.config.Realm, auth.ResourceMetadataURL(), reason)
}
