package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/infrastructure/auth"
)

// SignupRequest represents a request to create a new account
type SignupRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=1,max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	RiskAppetite string `json:"risk_appetite" binding:"omitempty,oneof=LOW MODERATE HIGH"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=1,max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	RiskAppetite string `json:"risk_appetite" binding:"required,oneof=LOW MODERATE HIGH"`
}

// ChangePasswordRequest carries the old and new passwords
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	RiskAppetite string     `json:"risk_appetite"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SignupResponse is returned after successful account creation
type SignupResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

// LoginResponse pairs the authenticated user with fresh tokens
type LoginResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		RiskAppetite: string(u.RiskAppetite),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}
