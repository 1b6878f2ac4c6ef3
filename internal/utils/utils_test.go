package utils_test

import (
	"os"
	"testing"

	"github.com/mcpward/mcpward/internal/utils"

	"gotest.tools/v3/assert"
)

func TestGenerateRandomToken(t *testing.T) {
	// Normal case
	token, err := utils.GenerateRandomToken(32)
	assert.NilError(t, err)
	assert.Assert(t, len(token) > 0)

	// Two tokens never collide
	other, err := utils.GenerateRandomToken(32)
	assert.NilError(t, err)
	assert.Assert(t, token != other)

	// Invalid length
	_, err = utils.GenerateRandomToken(0)
	assert.ErrorContains(t, err, "length must be greater than 0")
}

func TestHashToken(t *testing.T) {
	// Known vector, sha256 of "test"
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", utils.HashToken("test"))

	// Deterministic
	assert.Equal(t, utils.HashToken("token"), utils.HashToken("token"))
	assert.Assert(t, utils.HashToken("token") != utils.HashToken("other"))
}

func TestParseUsers(t *testing.T) {
	// Single user with one role
	users, err := utils.ParseUsers("1:alice:administrator")
	assert.NilError(t, err)
	assert.Equal(t, 1, len(users))
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "alice", users[0].Username)
	assert.DeepEqual(t, []string{"administrator"}, users[0].Roles)

	// Multiple users, multiple roles
	users, err = utils.ParseUsers("1:alice:administrator,2:bob:editor+author")
	assert.NilError(t, err)
	assert.Equal(t, 2, len(users))
	assert.DeepEqual(t, []string{"editor", "author"}, users[1].Roles)

	// Whitespace and trailing commas are tolerated
	users, err = utils.ParseUsers(" 1:alice:subscriber , ")
	assert.NilError(t, err)
	assert.Equal(t, 1, len(users))

	// Missing field
	_, err = utils.ParseUsers("1:alice")
	assert.ErrorContains(t, err, "invalid user entry")

	// Empty field
	_, err = utils.ParseUsers("1::administrator")
	assert.ErrorContains(t, err, "invalid user entry")
}

func TestGetUsers(t *testing.T) {
	// Setup
	err := os.WriteFile("/tmp/mcpward_test_users", []byte("2:bob:editor\n\n3:carol:author\n"), 0644)
	assert.NilError(t, err)
	defer os.Remove("/tmp/mcpward_test_users")

	// Config only
	users, err := utils.GetUsers("1:alice:administrator", "")
	assert.NilError(t, err)
	assert.Equal(t, 1, len(users))

	// File only
	users, err = utils.GetUsers("", "/tmp/mcpward_test_users")
	assert.NilError(t, err)
	assert.Equal(t, 2, len(users))
	assert.Equal(t, "bob", users[0].Username)

	// Both merge
	users, err = utils.GetUsers("1:alice:administrator", "/tmp/mcpward_test_users")
	assert.NilError(t, err)
	assert.Equal(t, 3, len(users))

	// Missing file is an error
	_, err = utils.GetUsers("1:alice:administrator", "/tmp/mcpward_missing_users")
	assert.Assert(t, err != nil)
}
