package auth

import (
	"errors"
	"time"
)

// Session is a bearer token resolved to a user on every request.
type Session struct {
	Token     string
	UserId    int
	ExpiresAt time.Time
}

const sessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
)
