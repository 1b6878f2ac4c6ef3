package service

import (
	"errors"
	"time"

	"github.com/mcpward/mcpward/internal/model"
	"github.com/mcpward/mcpward/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// staticTokenLength is the number of random bytes in a static token.
const staticTokenLength = 32

type StaticTokenServiceConfig struct {
	Database *gorm.DB
}

type StaticTokenService struct {
	config StaticTokenServiceConfig
}

func NewStaticTokenService(config StaticTokenServiceConfig) *StaticTokenService {
	return &StaticTokenService{
		config: config,
	}
}

// Create mints a new static token for a user. The plaintext is returned
// exactly once, only its hash is persisted.
func (sts *StaticTokenService) Create(userID string, label string, expiresAt *int64) (string, error) {
	token, err := utils.GenerateRandomToken(staticTokenLength)

	if err != nil {
		return "", err
	}

	record := model.StaticToken{
		TokenHash: utils.HashToken(token),
		UserID:    userID,
		Label:     label,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().Unix(),
	}

	if err := sts.config.Database.Create(&record).Error; err != nil {
		return "", err
	}

	log.Info().Str("user_id", userID).Str("label", label).Msg("Created static token")
	return token, nil
}

// Authenticate looks a candidate token up by hash. An expired token is
// reported as expired, not as unknown, so the caller can surface the right
// reason.
func (sts *StaticTokenService) Authenticate(token string) (*model.StaticToken, error) {
	var record model.StaticToken
	err := sts.config.Database.Where("token_hash = ?", utils.HashToken(token)).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if record.ExpiresAt != nil && *record.ExpiresAt <= time.Now().Unix() {
		return nil, ErrTokenExpired
	}

	// Best effort, a failure here must not fail the auth decision
	now := time.Now().Unix()
	if err := sts.config.Database.Model(&model.StaticToken{}).Where("token_hash = ?", record.TokenHash).Update("last_used_at", now).Error; err != nil {
		log.Warn().Err(err).Msg("Failed to update static token last_used_at")
	}

	return &record, nil
}

func (sts *StaticTokenService) List(userID string) ([]model.StaticToken, error) {
	var records []model.StaticToken
	query := sts.config.Database.Order("created_at desc")

	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (sts *StaticTokenService) Delete(tokenHash string) error {
	return sts.config.Database.Where("token_hash = ?", tokenHash).Delete(&model.StaticToken{}).Error
}

func (sts *StaticTokenService) CleanupExpired() (int64, error) {
	result := sts.config.Database.Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now().Unix()).Delete(&model.StaticToken{})
	return result.RowsAffected, result.Error
}
