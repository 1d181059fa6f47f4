package auth

import (
	"github.com/joaoo737/deliveryfront/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest captures a new account signup. VendorName is required
// when registering with the vendor role.
type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Name       string  `json:"name" validate:"required,min=2"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,min=8"`
	Role       string  `json:"role" validate:"required,oneof=customer vendor"`
	VendorName string  `json:"vendor_name,omitempty"`
}

// TokenPair carries the freshly minted credentials.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the tokens and user produced by a successful
// login.
type LoginResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}
