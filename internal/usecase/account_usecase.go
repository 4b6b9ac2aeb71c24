// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"bookmarket/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new local account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ProviderLoginInput defines the data required for a federated login.
type ProviderLoginInput struct {
	Provider    string
	AccessToken string
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput defines the data required to end a session.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns a fresh access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AccountUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates a local account from email and password.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login authenticates a local account and opens a session.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// ProviderLogin exchanges a provider access token for a local session,
	// creating the local account on first login.
	ProviderLogin(ctx context.Context, input *ProviderLoginInput) (*LoginOutput, error)

	// RefreshToken issues a new access token from a live refresh token.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout ends the session identified by the refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// GetProfile retrieves a user's profile by ID.
	GetProfile(ctx context.Context, userID int64) (*entity.User, error)
}
