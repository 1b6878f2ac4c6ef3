package service_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcpward/mcpward/internal/model"
	"github.com/mcpward/mcpward/internal/service"

	"gotest.tools/v3/assert"
)

func TestCodeIssueAndRedeem(t *testing.T) {
	db := newTestDatabase(t)
	codes := service.NewCodeService(service.CodeServiceConfig{
		CodeExpiry: 600,
		Database:   db,
	})

	// Issue
	code, err := codes.Issue("some-client-id", "1", "https://example.com/callback", []string{"mcp:read", "mcp:write"}, "some-challenge", "S256")
	assert.NilError(t, err)
	assert.Assert(t, len(code) > 0)

	// Redeem returns the stored grant
	record, err := codes.Redeem(code)
	assert.NilError(t, err)
	assert.Equal(t, "some-client-id", record.ClientID)
	assert.Equal(t, "1", record.UserID)
	assert.Equal(t, "https://example.com/callback", record.RedirectURI)
	assert.Equal(t, "mcp:read mcp:write", record.Scopes)
	assert.Equal(t, "some-challenge", record.CodeChallenge)
	assert.Equal(t, "S256", record.CodeChallengeMethod)

	// Second redemption fails
	_, err = codes.Redeem(code)
	assert.ErrorIs(t, err, service.ErrInvalidGrant)

	// Unknown code
	_, err = codes.Redeem("no-such-code")
	assert.ErrorIs(t, err, service.ErrInvalidGrant)
}

func TestCodeRedeemExpired(t *testing.T) {
	db := newTestDatabase(t)
	codes := service.NewCodeService(service.CodeServiceConfig{
		CodeExpiry: 600,
		Database:   db,
	})

	code, err := codes.Issue("some-client-id", "1", "https://example.com/callback", []string{"mcp:read"}, "", "")
	assert.NilError(t, err)

	// Backdate the expiry
	err = db.Model(&model.AuthorizationCode{}).Where("code = ?", code).Update("expires_at", time.Now().Add(-time.Minute).Unix()).Error
	assert.NilError(t, err)

	_, err = codes.Redeem(code)
	assert.ErrorIs(t, err, service.ErrInvalidGrant)
}

func TestCodeRedeemConcurrent(t *testing.T) {
	db := newTestDatabase(t)
	codes := service.NewCodeService(service.CodeServiceConfig{
		CodeExpiry: 600,
		Database:   db,
	})

	code, err := codes.Issue("some-client-id", "1", "https://example.com/callback", []string{"mcp:read"}, "", "")
	assert.NilError(t, err)

	// Exactly one of the racing redemptions may win
	var successes atomic.Int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := codes.Redeem(code); err == nil {
				successes.Add(1)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), successes.Load())
}

func TestCodeCleanupExpired(t *testing.T) {
	db := newTestDatabase(t)
	codes := service.NewCodeService(service.CodeServiceConfig{
		CodeExpiry: 600,
		Database:   db,
	})

	expired, err := codes.Issue("some-client-id", "1", "https://example.com/callback", []string{"mcp:read"}, "", "")
	assert.NilError(t, err)

	live, err := codes.Issue("some-client-id", "1", "https://example.com/callback", []string{"mcp:read"}, "", "")
	assert.NilError(t, err)

	err = db.Model(&model.AuthorizationCode{}).Where("code = ?", expired).Update("expires_at", time.Now().Add(-time.Minute).Unix()).Error
	assert.NilError(t, err)

	removed, err := codes.CleanupExpired()
	assert.NilError(t, err)
	assert.Equal(t, int64(1), removed)

	// The live code still redeems
	_, err = codes.Redeem(live)
	assert.NilError(t, err)
}
