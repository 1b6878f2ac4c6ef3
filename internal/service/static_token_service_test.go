package service_test

import (
	"testing"
	"time"

	"github.com/mcpward/mcpward/internal/service"
	"github.com/mcpward/mcpward/internal/utils"

	"gotest.tools/v3/assert"
)

func TestStaticTokenCreateAndAuthenticate(t *testing.T) {
	staticTokens := service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: newTestDatabase(t),
	})

	token, err := staticTokens.Create("1", "ci pipeline", nil)
	assert.NilError(t, err)
	assert.Assert(t, len(token) > 0)

	// The plaintext resolves to its record
	record, err := staticTokens.Authenticate(token)
	assert.NilError(t, err)
	assert.Equal(t, "1", record.UserID)
	assert.Equal(t, "ci pipeline", record.Label)

	// Only the hash is stored
	assert.Equal(t, utils.HashToken(token), record.TokenHash)

	// Unknown token
	_, err = staticTokens.Authenticate("no-such-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestStaticTokenExpiry(t *testing.T) {
	staticTokens := service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: newTestDatabase(t),
	})

	expiry := time.Now().Add(-time.Minute).Unix()
	token, err := staticTokens.Create("1", "expired token", &expiry)
	assert.NilError(t, err)

	// An expired token reports expired, not unknown
	_, err = staticTokens.Authenticate(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestStaticTokenLastUsed(t *testing.T) {
	staticTokens := service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: newTestDatabase(t),
	})

	token, err := staticTokens.Create("1", "tracked token", nil)
	assert.NilError(t, err)

	_, err = staticTokens.Authenticate(token)
	assert.NilError(t, err)

	tokens, err := staticTokens.List("1")
	assert.NilError(t, err)
	assert.Equal(t, 1, len(tokens))
	assert.Assert(t, tokens[0].LastUsedAt != nil)
}

func TestStaticTokenListAndDelete(t *testing.T) {
	staticTokens := service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: newTestDatabase(t),
	})

	aliceToken, err := staticTokens.Create("1", "alice token", nil)
	assert.NilError(t, err)

	_, err = staticTokens.Create("2", "bob token", nil)
	assert.NilError(t, err)

	// Unfiltered list
	tokens, err := staticTokens.List("")
	assert.NilError(t, err)
	assert.Equal(t, 2, len(tokens))

	// Filtered by user
	tokens, err = staticTokens.List("1")
	assert.NilError(t, err)
	assert.Equal(t, 1, len(tokens))
	assert.Equal(t, "alice token", tokens[0].Label)

	// Delete by hash
	err = staticTokens.Delete(utils.HashToken(aliceToken))
	assert.NilError(t, err)

	_, err = staticTokens.Authenticate(aliceToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestStaticTokenCleanupExpired(t *testing.T) {
	staticTokens := service.NewStaticTokenService(service.StaticTokenServiceConfig{
		Database: newTestDatabase(t),
	})

	expiry := time.Now().Add(-time.Minute).Unix()
	_, err := staticTokens.Create("1", "expired token", &expiry)
	assert.NilError(t, err)

	live, err := staticTokens.Create("1", "live token", nil)
	assert.NilError(t, err)

	removed, err := staticTokens.CleanupExpired()
	assert.NilError(t, err)
	assert.Equal(t, int64(1), removed)

	// Tokens without expiry are never cleaned up
	_, err = staticTokens.Authenticate(live)
	assert.NilError(t, err)
}
