// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a unique "person" or "account".
// An account is created either locally (email + password) or through a federated
// provider login; a single row may carry both credentials over its lifetime.
type User struct {
	ID             int64     // Auto-assigned local identifier, the subject of issued tokens.
	Name           string    // The user's display name. Defaults to the email for local signups.
	Email          string    // Login email for local accounts. Empty for provider-only accounts.
	PasswordHash   string    // Bcrypt-hashed password. Empty for provider-only accounts.
	Provider       string    // Federated provider tag, e.g. "facebook". Empty for local-only accounts.
	ProviderUserID string    // The user's unique ID at the external provider.
	Avatar         string    // Cached avatar URL from the provider profile, when enabled.
	Location       string    // Cached free-form location from the provider profile, when enabled.
	CreatedAt      time.Time // Timestamp of when this user account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this user's data.
}

// IsFederated reports whether this account is bound to an external provider.
func (u *User) IsFederated() bool {
	return u.Provider != "" && u.ProviderUserID != ""
}

// HasLocalCredential reports whether this account can log in with email and password.
func (u *User) HasLocalCredential() bool {
	return u.Email != "" && u.PasswordHash != ""
}
