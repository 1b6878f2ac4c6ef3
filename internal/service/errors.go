package service

import "errors"

// Sentinel errors shared by the stores and the auth manager. Controllers map
// these onto OAuth error codes and HTTP statuses; nothing in the service
// layer writes to the wire.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("client already registered")
	ErrInvalidGrant    = errors.New("invalid grant")
	ErrAuthRequired    = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrUnknownUser     = errors.New("unknown user")
)
