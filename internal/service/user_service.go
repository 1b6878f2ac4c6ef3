package service

import (
	"github.com/mcpward/mcpward/internal/config"
)

// UserProvider resolves user ids to accounts and roles. The host system owns
// the user database; this is the seam the authorization core consumes.
type UserProvider interface {
	GetUser(userID string) (config.User, bool)
	GetUserByUsername(username string) (config.User, bool)
}

type UserServiceConfig struct {
	Users []config.User
}

// UserService is the config-backed UserProvider, users are declared at
// startup and never mutated.
type UserService struct {
	config UserServiceConfig
}

func NewUserService(config UserServiceConfig) *UserService {
	return &UserService{
		config: config,
	}
}

func (us *UserService) GetUser(userID string) (config.User, bool) {
	for _, user := range us.config.Users {
		if user.ID == userID {
			return user, true
		}
	}
	return config.User{}, false
}

func (us *UserService) GetUserByUsername(username string) (config.User, bool) {
	for _, user := range us.config.Users {
		if user.Username == username {
			return user, true
		}
	}
	return config.User{}, false
}
