package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted record behind a signed session token.
type Session struct {
	ID          string    `json:"id"`
	ManagerID   string    `json:"managerId"`
	ManagerName string    `json:"managerName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// SessionClaims is the JWT payload identifying the signed-in Pre-Visa manager.
type SessionClaims struct {
	ManagerID   string `json:"manager_id"`
	ManagerName string `json:"manager_name,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest opens a console session for a Pre-Visa manager.
type LoginRequest struct {
	ManagerID string `json:"managerId" validate:"required"`
	Name      string `json:"name"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the session token and its lifetime.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	Session   Session   `json:"session"`
	IssuedAt  time.Time `json:"issuedAt"`
}
