package handler

import "github.com/UsagiiTsukino/medchain-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type registerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken,omitempty"`
	User        *domain.User `json:"user,omitempty"`
}

type registerResponse struct {
	WalletAddress string       `json:"walletAddress"`
	User          *domain.User `json:"user"`
}

type logoutResponse struct {
	StatusCode int `json:"statusCode"`
}
