package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/mcpward/mcpward/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ClientServiceConfig struct {
	BcryptCost int
	Database   *gorm.DB
}

type ClientService struct {
	config ClientServiceConfig
}

func NewClientService(config ClientServiceConfig) *ClientService {
	if config.BcryptCost <= 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &ClientService{
		config: config,
	}
}

func (cs *ClientService) Register(clientID string, secret string, name string, redirectURIs []string, confidential bool) (*model.Client, error) {
	var existing model.Client
	err := cs.config.Database.Where("client_id = ?", clientID).First(&existing).Error

	if err == nil {
		return nil, ErrDuplicateClient
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cs.config.BcryptCost)

	if err != nil {
		return nil, err
	}

	urisJSON, err := json.Marshal(redirectURIs)

	if err != nil {
		return nil, err
	}

	client := model.Client{
		ClientID:         clientID,
		ClientSecretHash: string(hash),
		Name:             name,
		RedirectURIs:     string(urisJSON),
		Confidential:     confidential,
		CreatedAt:        time.Now().Unix(),
	}

	if err := cs.config.Database.Create(&client).Error; err != nil {
		return nil, err
	}

	log.Info().Str("client_id", clientID).Str("name", name).Msg("Registered OAuth client")
	return &client, nil
}

func (cs *ClientService) GetClient(clientID string) (*model.Client, error) {
	var client model.Client
	err := cs.config.Database.Where("client_id = ?", clientID).First(&client).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &client, nil
}

// VerifyClientSecret checks a client secret against the stored hash. It never
// returns an error, a missing client behaves exactly like a bad secret so that
// client existence does not leak through the error channel.
func (cs *ClientService) VerifyClientSecret(clientID string, secret string) bool {
	client, err := cs.GetClient(clientID)

	if err != nil {
		// Compare against a throwaway hash so a missing client costs the same
		bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(secret))
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(secret)) == nil
}

// ValidateRedirectURI requires an exact string match against the registered
// set. No wildcard or prefix matching, a trailing slash is a different URI.
func (cs *ClientService) ValidateRedirectURI(clientID string, redirectURI string) bool {
	client, err := cs.GetClient(clientID)

	if err != nil {
		return false
	}

	var uris []string
	if err := json.Unmarshal([]byte(client.RedirectURIs), &uris); err != nil {
		log.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal redirect URIs")
		return false
	}

	for _, uri := range uris {
		if uri == redirectURI {
			return true
		}
	}

	return false
}
