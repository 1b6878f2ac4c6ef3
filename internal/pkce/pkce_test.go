package pkce_test

import (
	"testing"

	"github.com/mcpward/mcpward/internal/pkce"

	"gotest.tools/v3/assert"
)

func TestChallenge(t *testing.T) {
	// Known vector from RFC 7636 appendix B
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", pkce.Challenge(verifier))

	// Deterministic
	assert.Equal(t, pkce.Challenge("some-verifier"), pkce.Challenge("some-verifier"))
	assert.Assert(t, pkce.Challenge("some-verifier") != pkce.Challenge("other-verifier"))
}

func TestVerify(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := pkce.Challenge(verifier)

	// S256 happy path
	assert.Equal(t, true, pkce.Verify(challenge, pkce.MethodS256, verifier))

	// S256 wrong verifier
	assert.Equal(t, false, pkce.Verify(challenge, pkce.MethodS256, "wrong-verifier"))

	// Plain happy path
	assert.Equal(t, true, pkce.Verify("plain-value", pkce.MethodPlain, "plain-value"))

	// Plain wrong verifier
	assert.Equal(t, false, pkce.Verify("plain-value", pkce.MethodPlain, "other-value"))

	// No challenge stored means the client did not use PKCE
	assert.Equal(t, true, pkce.Verify("", "", "anything"))
	assert.Equal(t, true, pkce.Verify("", pkce.MethodS256, ""))

	// Unknown method always fails
	assert.Equal(t, false, pkce.Verify(challenge, "S512", verifier))
	assert.Equal(t, false, pkce.Verify(challenge, "", verifier))
}
