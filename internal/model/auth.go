package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthInfo is the verified claim set of a bearer token. It lives for one
// request and is never persisted.
type AuthInfo struct {
	Username       string
	AccountID      uuid.UUID
	AccountLoginID uuid.UUID
	IssuedAt       time.Time
	ExpireAt       time.Time
	Issuer         string
}

// SignupRequest represents an account registration request.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Fullname string `json:"fullname" validate:"required,max=128"`
}

// SignupResponse is intentionally empty.
type SignupResponse struct{}

// LoginRequest is decoded from an application/x-www-form-urlencoded body.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	IPAddr   string `form:"-" validate:"-"`
}

// LoginResponse carries the access token for the new session.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// LogoutResponse is intentionally empty.
type LogoutResponse struct{}
