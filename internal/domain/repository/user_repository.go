// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bookmarket/internal/domain/entity"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email unique constraint is violated.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Optional provider profile columns a deployment may cache locally.
// Keys of the profile map passed to UpsertFederated.
const (
	ProfileFieldAvatar   = "avatar"
	ProfileFieldLocation = "location"
	ProfileFieldEmail    = "email"
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	// Matching is exact: the caller trims, nothing folds case.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByProvider retrieves a single user by their federated identity.
	FindByProvider(ctx context.Context, provider, providerUserID string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// UpsertFederated resolves a federated identity to exactly one local user
	// in a single atomic statement, inserting the row on first login and
	// refreshing it afterwards. The name is always written; the profile map
	// carries only the optional columns to set (ProfileField* keys), so
	// fields the provider omitted are left untouched.
	UpsertFederated(ctx context.Context, provider, providerUserID, name string, profile map[string]string) (*entity.User, error)
}
