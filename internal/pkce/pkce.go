package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

const (
	MethodS256  = "S256"
	MethodPlain = "plain"
)

// Challenge computes the S256 challenge for a verifier, base64url without
// padding as per RFC 7636.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Verify checks a code verifier against the challenge stored with the
// authorization code. An empty challenge means the client did not use PKCE,
// which the flow tolerates. Unknown methods always fail.
func Verify(challenge string, method string, verifier string) bool {
	if challenge == "" {
		return true
	}

	switch method {
	case MethodS256:
		return subtle.ConstantTimeCompare([]byte(Challenge(verifier)), []byte(challenge)) == 1
	case MethodPlain:
		return subtle.ConstantTimeCompare([]byte(verifier), []byte(challenge)) == 1
	default:
		return false
	}
}
