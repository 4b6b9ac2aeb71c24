// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return userM.ToEntity(), nil
}

// FindByEmail retrieves a single user by their email address. The match is
// exact; callers trim whitespace and nothing folds case.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return userM.ToEntity(), nil
}

// FindByProvider retrieves a single user by their federated identity.
func (repo *userRepository) FindByProvider(ctx context.Context, provider, providerUserID string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by provider")
	}

	return userM.ToEntity(), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := model.UserModelFromEntity(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := model.UserModelFromEntity(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpsertFederated resolves a federated identity to exactly one local user.
// The unique index on (provider, provider_user_id) arbitrates concurrent
// first logins: one INSERT wins, every other statement takes the UPDATE arm
// of ON CONFLICT, so no duplicate identity can ever be created.
//
// The profile map holds only the optional columns to write on this login.
// A field the provider omitted is simply not in the map, so the stored
// value survives instead of being overwritten with NULL.
func (repo *userRepository) UpsertFederated(ctx context.Context, provider, providerUserID, name string, profile map[string]string) (*entity.User, error) {
	userM := &model.UserModel{
		Name:           name,
		Provider:       &provider,
		ProviderUserID: &providerUserID,
	}

	assignments := map[string]any{
		"name":       name,
		"updated_at": time.Now(),
	}
	for field, value := range profile {
		switch field {
		case repository.ProfileFieldAvatar:
			userM.Avatar = &value
			assignments["avatar"] = value
		case repository.ProfileFieldLocation:
			userM.Location = &value
			assignments["location"] = value
		case repository.ProfileFieldEmail:
			userM.Email = &value
			assignments["email"] = value
		}
	}

	err := repo.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_user_id"}},
				DoUpdates: clause.Assignments(assignments),
			},
			clause.Returning{},
		).
		Create(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			// The only other unique column is email: the provider reported an
			// address that already belongs to a different account.
			return nil, domainerrors.ErrEmailTaken.WrapMessage("provider email belongs to another account")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to upsert federated user")
	}

	return userM.ToEntity(), nil
}
