package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mcpward/mcpward/internal/scopes"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type JWTServiceConfig struct {
	Issuer            string
	Audience          string
	PrivateKeyPath    string
	PublicKeyPath     string
	AccessTokenExpiry int // seconds
	ClockSkew         int // seconds
}

type JWTService struct {
	config     JWTServiceConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	keyID      string
}

// Claims is the typed claim set carried by issued access tokens.
type Claims struct {
	ClientID string   `json:"client_id"`
	Scope    string   `json:"scope"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Scopes returns the scope claim split into a list.
func (c *Claims) Scopes() []string {
	return scopes.Split(c.Scope)
}

func NewJWTService(config JWTServiceConfig) *JWTService {
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 3600
	}
	return &JWTService{
		config: config,
	}
}

// Init loads the RSA signing key pair from disk, generating and persisting a
// new pair when none exists yet. A key file that exists but cannot be parsed
// is fatal, the service must not come up unsigned.
func (js *JWTService) Init() error {
	_, privErr := os.Stat(js.config.PrivateKeyPath)
	_, pubErr := os.Stat(js.config.PublicKeyPath)

	if os.IsNotExist(privErr) && os.IsNotExist(pubErr) {
		if err := js.generateKeyPair(); err != nil {
			return fmt.Errorf("failed to generate RSA key pair: %w", err)
		}
		log.Info().Str("privateKeyPath", js.config.PrivateKeyPath).Msg("Generated new RSA key pair")
	}

	if err := js.loadKeyPair(); err != nil {
		return err
	}

	sum := sha256.Sum256(js.publicKey.N.Bytes())
	js.keyID = hex.EncodeToString(sum[:8])

	return nil
}

func (js *JWTService) generateKeyPair() error {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(js.config.PrivateKeyPath), 0750); err != nil {
		return err
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	if err := os.WriteFile(js.config.PrivateKeyPath, privatePEM, 0600); err != nil {
		return err
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)

	if err != nil {
		return err
	}

	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	})

	return os.WriteFile(js.config.PublicKeyPath, publicPEM, 0644)
}

func (js *JWTService) loadKeyPair() error {
	privateBytes, err := os.ReadFile(js.config.PrivateKeyPath)

	if err != nil {
		return fmt.Errorf("failed to read private key: %w", err)
	}

	privateBlock, _ := pem.Decode(privateBytes)

	if privateBlock == nil {
		return errors.New("failed to decode private key PEM")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(privateBlock.Bytes)

	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}

	publicBytes, err := os.ReadFile(js.config.PublicKeyPath)

	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}

	publicBlock, _ := pem.Decode(publicBytes)

	if publicBlock == nil {
		return errors.New("failed to decode public key PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(publicBlock.Bytes)

	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	publicKey, ok := parsed.(*rsa.PublicKey)

	if !ok {
		return errors.New("public key is not an RSA key")
	}

	js.privateKey = privateKey
	js.publicKey = publicKey
	return nil
}

func (js *JWTService) Issue(jti string, userID string, clientID string, grantedScopes []string, username string, roles []string) (string, error) {
	now := time.Now()

	claims := Claims{
		ClientID: clientID,
		Scope:    scopes.Join(grantedScopes),
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    js.config.Issuer,
			Audience:  jwt.ClaimStrings{js.config.Audience},
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(js.config.AccessTokenExpiry) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = js.keyID

	signed, err := token.SignedString(js.privateKey)

	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// Validate runs the full pipeline: parse, signature, issuer, audience and
// time window with the configured clock skew. Failures always surface as
// errors, there is no partially valid token.
func (js *JWTService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return js.publicKey, nil
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(js.config.Issuer),
		jwt.WithAudience(js.config.Audience),
		jwt.WithLeeway(time.Duration(js.config.ClockSkew)*time.Second),
		jwt.WithIssuedAt(),
	)

	if err != nil {
		return nil, err
	}

	return claims, nil
}

// JWK is the public signing key in JSON Web Key form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

func (js *JWTService) ExportJWK() JWK {
	n := js.publicKey.N.Bytes()

	e := js.publicKey.E
	eBytes := []byte{byte(e >> 16), byte(e >> 8), byte(e)}
	if e > 0xFFFFFF {
		eBytes = []byte{byte(e >> 24), byte(e >> 16), byte(e >> 8), byte(e)}
	}

	return JWK{
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		Kid: js.keyID,
		N:   base64.RawURLEncoding.EncodeToString(n),
		E:   base64.RawURLEncoding.EncodeToString(eBytes),
	}
}

func (js *JWTService) ExportJWKS() JWKS {
	return JWKS{
		Keys: []JWK{js.ExportJWK()},
	}
}
