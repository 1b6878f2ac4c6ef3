package model

// AccessToken is the revocation ledger for issued JWTs. The bearer credential
// itself is stateless; this row only exists so a token can be cut off before
// its signature expires.
type AccessToken struct {
	JTI       string `gorm:"column:jti;primaryKey"`
	ClientID  string `gorm:"column:client_id;not null"`
	UserID    string `gorm:"column:user_id;not null;index"`
	Scopes    string `gorm:"column:scopes;not null"` // space-joined
	Revoked   bool   `gorm:"column:revoked;default:false"`
	ExpiresAt int64  `gorm:"column:expires_at;not null;index"`
	CreatedAt int64  `gorm:"column:created_at;not null"`
}

func (AccessToken) TableName() string {
	return "access_tokens"
}
