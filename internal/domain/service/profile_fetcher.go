package service

import (
	"context"
)

// ProviderProfile represents user information fetched from a federated login provider.
// Optional fields are empty when the provider omitted them; callers must not
// interpret empty as "clear the cached value".
type ProviderProfile struct {
	ID        string // Provider-specific user ID.
	Name      string // User's display name at the provider.
	Email     string // User's email address, if shared.
	AvatarURL string // URL to the user's profile picture, if available.
	Location  string // Free-form location string, if shared.
}

// ProfileFetcher defines the interface for exchanging a provider access token
// for the user's profile. Implementations own their timeout and retry policy;
// a provider that cannot be reached is an authentication failure, not a
// server error.
type ProfileFetcher interface {
	// FetchProfile verifies the access token with the provider and returns
	// the associated profile.
	FetchProfile(ctx context.Context, accessToken string) (*ProviderProfile, error)

	// Provider returns the provider tag this fetcher serves, e.g. "facebook".
	Provider() string
}
