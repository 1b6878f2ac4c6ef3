package service

import (
	"errors"
	"time"

	"github.com/mcpward/mcpward/internal/model"
	"github.com/mcpward/mcpward/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// refreshTokenLength is the number of random bytes in a refresh token.
const refreshTokenLength = 32

type TokenServiceConfig struct {
	AccessTokenExpiry  int // seconds
	RefreshTokenExpiry int // seconds
	Database           *gorm.DB
}

type TokenService struct {
	config TokenServiceConfig
}

type TokenPair struct {
	JTI          string
	RefreshToken string
}

func NewTokenService(config TokenServiceConfig) *TokenService {
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 3600
	}
	if config.RefreshTokenExpiry <= 0 {
		config.RefreshTokenExpiry = 30 * 24 * 3600
	}
	return &TokenService{
		config: config,
	}
}

func (ts *TokenService) AccessTokenExpiry() int {
	return ts.config.AccessTokenExpiry
}

// IssuePair writes the access token ledger row and a paired refresh token in
// one transaction so a partial pair never lands in the store.
func (ts *TokenService) IssuePair(jti string, clientID string, userID string, scopes string) (*TokenPair, error) {
	refreshToken, err := utils.GenerateRandomToken(refreshTokenLength)

	if err != nil {
		return nil, err
	}

	now := time.Now()

	err = ts.config.Database.Transaction(func(tx *gorm.DB) error {
		access := model.AccessToken{
			JTI:       jti,
			ClientID:  clientID,
			UserID:    userID,
			Scopes:    scopes,
			Revoked:   false,
			ExpiresAt: now.Add(time.Duration(ts.config.AccessTokenExpiry) * time.Second).Unix(),
			CreatedAt: now.Unix(),
		}

		if err := tx.Create(&access).Error; err != nil {
			return err
		}

		refresh := model.RefreshToken{
			Token:          refreshToken,
			AccessTokenJTI: jti,
			ClientID:       clientID,
			UserID:         userID,
			Scopes:         scopes,
			Revoked:        false,
			ExpiresAt:      now.Add(time.Duration(ts.config.RefreshTokenExpiry) * time.Second).Unix(),
			CreatedAt:      now.Unix(),
		}

		return tx.Create(&refresh).Error
	})

	if err != nil {
		return nil, err
	}

	return &TokenPair{JTI: jti, RefreshToken: refreshToken}, nil
}

func (ts *TokenService) IsAccessRevoked(jti string) (bool, error) {
	var record model.AccessToken
	err := ts.config.Database.Where("jti = ?", jti).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown jti means we never issued it or already cleaned it up,
			// treat it as revoked
			return true, nil
		}
		return false, err
	}

	return record.Revoked, nil
}

func (ts *TokenService) GetValidRefreshToken(token string) (*model.RefreshToken, error) {
	var record model.RefreshToken
	err := ts.config.Database.Where("token = ? AND revoked = ? AND expires_at > ?", token, false, time.Now().Unix()).First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	return &record, nil
}

// Rotate revokes the old access record and refresh token and mints a fresh
// pair carrying the same user and scopes, all in one transaction. A replayed
// refresh token fails GetValidRefreshToken afterwards.
func (ts *TokenService) Rotate(old *model.RefreshToken, newJTI string) (*TokenPair, error) {
	refreshToken, err := utils.GenerateRandomToken(refreshTokenLength)

	if err != nil {
		return nil, err
	}

	now := time.Now()

	err = ts.config.Database.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.RefreshToken{}).
			Where("token = ? AND revoked = ?", old.Token, false).
			Update("revoked", true)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected != 1 {
			return ErrInvalidGrant
		}

		if err := tx.Model(&model.AccessToken{}).Where("jti = ?", old.AccessTokenJTI).Update("revoked", true).Error; err != nil {
			return err
		}

		access := model.AccessToken{
			JTI:       newJTI,
			ClientID:  old.ClientID,
			UserID:    old.UserID,
			Scopes:    old.Scopes,
			Revoked:   false,
			ExpiresAt: now.Add(time.Duration(ts.config.AccessTokenExpiry) * time.Second).Unix(),
			CreatedAt: now.Unix(),
		}

		if err := tx.Create(&access).Error; err != nil {
			return err
		}

		refresh := model.RefreshToken{
			Token:          refreshToken,
			AccessTokenJTI: newJTI,
			ClientID:       old.ClientID,
			UserID:         old.UserID,
			Scopes:         old.Scopes,
			Revoked:        false,
			ExpiresAt:      now.Add(time.Duration(ts.config.RefreshTokenExpiry) * time.Second).Unix(),
			CreatedAt:      now.Unix(),
		}

		return tx.Create(&refresh).Error
	})

	if err != nil {
		return nil, err
	}

	return &TokenPair{JTI: newJTI, RefreshToken: refreshToken}, nil
}

func (ts *TokenService) RevokeAccess(jti string) error {
	return ts.config.Database.Model(&model.AccessToken{}).Where("jti = ?", jti).Update("revoked", true).Error
}

func (ts *TokenService) RevokeRefresh(token string) error {
	return ts.config.Database.Model(&model.RefreshToken{}).Where("token = ?", token).Update("revoked", true).Error
}

// RevokeAllForUser cuts off every outstanding token for a user, both ledgers.
func (ts *TokenService) RevokeAllForUser(userID string) error {
	return ts.config.Database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.AccessToken{}).Where("user_id = ?", userID).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.RefreshToken{}).Where("user_id = ?", userID).Update("revoked", true).Error
	})
}

func (ts *TokenService) CleanupExpired() (int64, int64, error) {
	now := time.Now().Unix()

	access := ts.config.Database.Where("expires_at <= ?", now).Delete(&model.AccessToken{})
	if access.Error != nil {
		return 0, 0, access.Error
	}

	refresh := ts.config.Database.Where("expires_at <= ?", now).Delete(&model.RefreshToken{})
	if refresh.Error != nil {
		return access.RowsAffected, 0, refresh.Error
	}

	if access.RowsAffected > 0 || refresh.RowsAffected > 0 {
		log.Debug().Int64("access", access.RowsAffected).Int64("refresh", refresh.RowsAffected).Msg("Cleaned up expired tokens")
	}

	return access.RowsAffected, refresh.RowsAffected, nil
}
