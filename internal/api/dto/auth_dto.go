package dto

import (
	"time"

	"github.com/inucxhu/soporte360/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	Campaign     string      `json:"campaign,omitempty"`
	SupportGroup string      `json:"support_group,omitempty"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PrincipalResponse is the session-facing identity view.
type PrincipalResponse struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	Campaign     string      `json:"campaign,omitempty"`
	SupportGroup string      `json:"support_group,omitempty"`
}
