package service

import (
	"errors"
	"time"

	"github.com/mcpward/mcpward/internal/model"
	"github.com/mcpward/mcpward/internal/scopes"
	"github.com/mcpward/mcpward/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// codeLength is the number of random bytes in an authorization code, 32
// bytes gives 256 bits of entropy.
const codeLength = 32

type CodeServiceConfig struct {
	CodeExpiry int // seconds
	Database   *gorm.DB
}

type CodeService struct {
	config CodeServiceConfig
}

func NewCodeService(config CodeServiceConfig) *CodeService {
	if config.CodeExpiry <= 0 {
		config.CodeExpiry = 600
	}
	return &CodeService{
		config: config,
	}
}

func (cs *CodeService) Issue(clientID string, userID string, redirectURI string, grantedScopes []string, challenge string, challengeMethod string) (string, error) {
	code, err := utils.GenerateRandomToken(codeLength)

	if err != nil {
		return "", err
	}

	now := time.Now()

	record := model.AuthorizationCode{
		Code:                code,
		ClientID:            clientID,
		UserID:              userID,
		RedirectURI:         redirectURI,
		Scopes:              scopes.Join(grantedScopes),
		CodeChallenge:       challenge,
		CodeChallengeMethod: challengeMethod,
		Revoked:             false,
		ExpiresAt:           now.Add(time.Duration(cs.config.CodeExpiry) * time.Second).Unix(),
		CreatedAt:           now.Unix(),
	}

	if err := cs.config.Database.Create(&record).Error; err != nil {
		return "", err
	}

	log.Debug().Str("client_id", clientID).Str("user_id", userID).Msg("Issued authorization code")
	return code, nil
}

// Redeem reads an authorization code and marks it revoked in a single
// conditional update. Of N concurrent redemptions of the same code exactly
// one observes RowsAffected == 1, everyone else gets ErrInvalidGrant.
func (cs *CodeService) Redeem(code string) (*model.AuthorizationCode, error) {
	var record model.AuthorizationCode
	err := cs.config.Database.Where("code = ?", code).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	result := cs.config.Database.Model(&model.AuthorizationCode{}).
		Where("code = ? AND revoked = ? AND expires_at > ?", code, false, time.Now().Unix()).
		Update("revoked", true)

	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected != 1 {
		return nil, ErrInvalidGrant
	}

	record.Revoked = true
	return &record, nil
}

func (cs *CodeService) CleanupExpired() (int64, error) {
	result := cs.config.Database.Where("expires_at <= ?", time.Now().Unix()).Delete(&model.AuthorizationCode{})
	return result.RowsAffected, result.Error
}
