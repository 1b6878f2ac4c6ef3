package model

type RefreshToken struct {
	Token          string `gorm:"column:token;primaryKey"`
	AccessTokenJTI string `gorm:"column:access_token_jti;not null"`
	ClientID       string `gorm:"column:client_id;not null"`
	UserID         string `gorm:"column:user_id;not null;index"`
	Scopes         string `gorm:"column:scopes;not null"` // space-joined
	Revoked        bool   `gorm:"column:revoked;default:false"`
	ExpiresAt      int64  `gorm:"column:expires_at;not null;index"`
	CreatedAt      int64  `gorm:"column:created_at;not null"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
