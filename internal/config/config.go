package config

// Version information, set at build time

var Version = "development"
var CommitHash = "n/a"
var BuildTimestamp = "n/a"

// Main app config

type Config struct {
	Port               int    `mapstructure:"port" validate:"required"`
	Address            string `mapstructure:"address" validate:"required,ip4_addr"`
	AppURL             string `mapstructure:"app-url" validate:"required,url"`
	ResourceURL        string `mapstructure:"resource-url"`
	Realm              string `mapstructure:"realm"`
	DatabasePath       string `mapstructure:"database-path" validate:"required"`
	PrivateKeyPath     string `mapstructure:"private-key-path" validate:"required"`
	PublicKeyPath      string `mapstructure:"public-key-path" validate:"required"`
	Users              string `mapstructure:"users"`
	UsersFile          string `mapstructure:"users-file"`
	DisableOAuth       bool   `mapstructure:"disable-oauth"`
	AccessTokenExpiry  int    `mapstructure:"access-token-expiry"`
	RefreshTokenExpiry int    `mapstructure:"refresh-token-expiry"`
	CodeExpiry         int    `mapstructure:"code-expiry"`
	ClockSkew          int    `mapstructure:"clock-skew"`
	LogLevel           string `mapstructure:"log-level" validate:"oneof=trace debug info warn error fatal panic"`
	TrustedProxies     string `mapstructure:"trusted-proxies"`
}

// User is an account known to the ward, declared in config. Users carry
// roles, not permissions; scopes are derived from roles at auth time.

type User struct {
	ID       string
	Username string
	Roles    []string
}

// Principal is the resolved identity handed to the tool dispatcher after a
// successful authentication. It is immutable and passed by value.

type Principal struct {
	UserID     string
	Username   string
	Roles      []string
	Scopes     []string
	ClientID   string // empty for static-token auth
	AuthMethod string // "oauth" or "token"
}
