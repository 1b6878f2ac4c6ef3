package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mcpward/mcpward/internal/config"
)

// GenerateRandomToken returns a base64url encoded string carrying length
// bytes of cryptographically secure randomness.
func GenerateRandomToken(length int) (string, error) {
	if length < 1 {
		return "", errors.New("length must be greater than 0")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashToken returns the hex encoded SHA-256 digest of a token. Static tokens
// are stored and looked up by this hash only.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func ReadFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(contents), nil
}

// ParseUsers parses a comma separated list of users in the form
// id:username:role[+role...].
func ParseUsers(users string) ([]config.User, error) {
	parsed := []config.User{}

	for _, entry := range strings.Split(users, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid user entry %q, expected id:username:role", entry)
		}

		parsed = append(parsed, config.User{
			ID:       parts[0],
			Username: parts[1],
			Roles:    strings.Split(parts[2], "+"),
		})
	}

	return parsed, nil
}

// GetUsers merges users declared inline and users declared in a file, one
// entry per line in the file.
func GetUsers(conf string, file string) ([]config.User, error) {
	users := conf

	if file != "" {
		contents, err := ReadFile(file)
		if err != nil {
			return nil, err
		}
		lines := []string{}
		for _, line := range strings.Split(contents, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, strings.TrimSpace(line))
			}
		}
		if users != "" && len(lines) > 0 {
			users = users + "," + strings.Join(lines, ",")
		} else if len(lines) > 0 {
			users = strings.Join(lines, ",")
		}
	}

	return ParseUsers(users)
}
