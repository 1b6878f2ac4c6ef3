package model

// StaticToken is a long-lived opaque credential bound to a user. Only the
// SHA-256 hash of the token is stored; the plaintext is shown once at
// creation.
type StaticToken struct {
	TokenHash  string `gorm:"column:token_hash;primaryKey"`
	UserID     string `gorm:"column:user_id;not null;index"`
	Label      string `gorm:"column:label;not null"`
	ExpiresAt  *int64 `gorm:"column:expires_at"` // nil = no expiry
	LastUsedAt *int64 `gorm:"column:last_used_at"`
	CreatedAt  int64  `gorm:"column:created_at;not null"`
}

func (StaticToken) TableName() string {
	return "static_tokens"
}
