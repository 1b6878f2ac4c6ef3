package model

type Client struct {
	ClientID         string `gorm:"column:client_id;primaryKey"`
	ClientSecretHash string `gorm:"column:client_secret_hash;not null"`
	Name             string `gorm:"column:name;not null"`
	RedirectURIs     string `gorm:"column:redirect_uris;not null"` // JSON array
	Confidential     bool   `gorm:"column:confidential;default:false"`
	CreatedAt        int64  `gorm:"column:created_at;not null"`
}

func (Client) TableName() string {
	return "clients"
}
