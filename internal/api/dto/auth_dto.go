package dto

import (
	"time"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// LoginRequest payload for admin sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Email     string           `json:"email"`
	Role      domain.AdminRole `json:"role"`
}

// IdentityResponse describes the current admin.
type IdentityResponse struct {
	Email string           `json:"email"`
	Role  domain.AdminRole `json:"role"`
}
