package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mcpward/mcpward/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"gotest.tools/v3/assert"
)

func newTestJWTService(t *testing.T, config service.JWTServiceConfig) *service.JWTService {
	t.Helper()

	dir := t.TempDir()
	config.PrivateKeyPath = filepath.Join(dir, "mcpward.key")
	config.PublicKeyPath = filepath.Join(dir, "mcpward.key.pub")

	jwtService := service.NewJWTService(config)
	err := jwtService.Init()
	assert.NilError(t, err)

	return jwtService
}

func TestJWTIssueAndValidate(t *testing.T) {
	jwtService := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:            "https://example.com",
		Audience:          "https://example.com/mcp",
		AccessTokenExpiry: 3600,
		ClockSkew:         60,
	})

	token, err := jwtService.Issue("some-jti", "1", "some-client-id", []string{"mcp:read", "mcp:write"}, "alice", []string{"administrator"})
	assert.NilError(t, err)

	claims, err := jwtService.Validate(token)
	assert.NilError(t, err)
	assert.Equal(t, "some-jti", claims.ID)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "some-client-id", claims.ClientID)
	assert.Equal(t, "alice", claims.Username)
	assert.DeepEqual(t, []string{"administrator"}, claims.Roles)
	assert.DeepEqual(t, []string{"mcp:read", "mcp:write"}, claims.Scopes())
	assert.Equal(t, "https://example.com", claims.Issuer)
}

func TestJWTValidateGarbage(t *testing.T) {
	jwtService := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:   "https://example.com",
		Audience: "https://example.com/mcp",
	})

	_, err := jwtService.Validate("not-a-jwt")
	assert.Assert(t, err != nil)

	_, err = jwtService.Validate("")
	assert.Assert(t, err != nil)
}

func TestJWTValidateExpired(t *testing.T) {
	jwtService := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:            "https://example.com",
		Audience:          "https://example.com/mcp",
		AccessTokenExpiry: 1,
	})

	token, err := jwtService.Issue("some-jti", "1", "some-client-id", []string{"mcp:read"}, "alice", nil)
	assert.NilError(t, err)

	time.Sleep(2 * time.Second)

	_, err = jwtService.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTValidateWrongKey(t *testing.T) {
	signer := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:   "https://example.com",
		Audience: "https://example.com/mcp",
	})

	verifier := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:   "https://example.com",
		Audience: "https://example.com/mcp",
	})

	token, err := signer.Issue("some-jti", "1", "some-client-id", []string{"mcp:read"}, "alice", nil)
	assert.NilError(t, err)

	// A token signed with another key pair must not validate
	_, err = verifier.Validate(token)
	assert.Assert(t, err != nil)
}

func TestJWTValidateWrongIssuerAudience(t *testing.T) {
	dir := t.TempDir()

	signer := service.NewJWTService(service.JWTServiceConfig{
		Issuer:         "https://evil.example.com",
		Audience:       "https://example.com/mcp",
		PrivateKeyPath: filepath.Join(dir, "mcpward.key"),
		PublicKeyPath:  filepath.Join(dir, "mcpward.key.pub"),
	})
	assert.NilError(t, signer.Init())

	// Same key pair, different expected issuer
	verifier := service.NewJWTService(service.JWTServiceConfig{
		Issuer:         "https://example.com",
		Audience:       "https://example.com/mcp",
		PrivateKeyPath: filepath.Join(dir, "mcpward.key"),
		PublicKeyPath:  filepath.Join(dir, "mcpward.key.pub"),
	})
	assert.NilError(t, verifier.Init())

	token, err := signer.Issue("some-jti", "1", "some-client-id", []string{"mcp:read"}, "alice", nil)
	assert.NilError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTKeyPersistence(t *testing.T) {
	dir := t.TempDir()
	config := service.JWTServiceConfig{
		Issuer:         "https://example.com",
		Audience:       "https://example.com/mcp",
		PrivateKeyPath: filepath.Join(dir, "mcpward.key"),
		PublicKeyPath:  filepath.Join(dir, "mcpward.key.pub"),
	}

	first := service.NewJWTService(config)
	assert.NilError(t, first.Init())

	token, err := first.Issue("some-jti", "1", "some-client-id", []string{"mcp:read"}, "alice", nil)
	assert.NilError(t, err)

	// A second instance loads the persisted pair and validates tokens from
	// the first
	second := service.NewJWTService(config)
	assert.NilError(t, second.Init())

	claims, err := second.Validate(token)
	assert.NilError(t, err)
	assert.Equal(t, "some-jti", claims.ID)
}

func TestExportJWKS(t *testing.T) {
	jwtService := newTestJWTService(t, service.JWTServiceConfig{
		Issuer:   "https://example.com",
		Audience: "https://example.com/mcp",
	})

	jwks := jwtService.ExportJWKS()
	assert.Equal(t, 1, len(jwks.Keys))

	key := jwks.Keys[0]
	assert.Equal(t, "RSA", key.Kty)
	assert.Equal(t, "sig", key.Use)
	assert.Equal(t, "RS256", key.Alg)
	assert.Assert(t, len(key.Kid) > 0)
	assert.Assert(t, len(key.N) > 0)
	assert.Equal(t, "AQAB", key.E)
}
