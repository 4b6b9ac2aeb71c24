// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"bookmarket/config"
	deliverycontext "bookmarket/internal/delivery/context"
	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	fetchers          map[string]service.ProfileFetcher
	profileFields     []string
	passwordStrength  *config.PasswordStrengthConfig
	maxActiveSessions int
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Fetchers         []service.ProfileFetcher `group:"profile_fetchers"`
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	var profileFields []string
	if params.Config != nil && params.Config.Provider != nil {
		profileFields = params.Config.Provider.ProfileFields
	}

	var passwordStrength *config.PasswordStrengthConfig
	if params.Config != nil {
		passwordStrength = params.Config.PasswordStrength
	}

	fetchers := make(map[string]service.ProfileFetcher, len(params.Fetchers))
	for _, fetcher := range params.Fetchers {
		fetchers[fetcher.Provider()] = fetcher
	}

	return &accountService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		fetchers:          fetchers,
		profileFields:     profileFields,
		passwordStrength:  passwordStrength,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a local account from email and password. Email matching is
// exact after trimming: case variants of an existing address register as
// separate accounts.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := strings.TrimSpace(input.Email)

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.validatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		existing, findErr := userRepo.FindByEmail(ctx, email)
		if findErr != nil && !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to find user by email")
		}

		if findErr == nil {
			if existing.HasLocalCredential() {
				return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
			}

			// A federated account cached this email: attach the local
			// credential to the same row instead of creating a duplicate.
			existing.PasswordHash = hashedPassword
			if input.Name != "" {
				existing.Name = input.Name
			}
			if updateErr := userRepo.Update(ctx, existing); updateErr != nil {
				return errors.Wrap(updateErr, "failed to attach local credential")
			}
			registeredUser = existing

			return nil
		}

		name := input.Name
		if name == "" {
			name = email
		}
		newUser := &entity.User{
			Name:         name,
			Email:        email,
			PasswordHash: hashedPassword,
		}
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}
		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login authenticates a local account and opens a session.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := strings.TrimSpace(input.Email)

	srv.log(ctx).Info("Attempting login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.HasLocalCredential() || !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Int64("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.persistLoginRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Login succeeded", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

// ProviderLogin exchanges a provider access token for a local session.
// The identity resolves through one atomic upsert keyed on
// (provider, provider_user_id), so repeated and concurrent logins always
// land on the same local user.
func (srv *accountService) ProviderLogin(ctx context.Context, input *usecase.ProviderLoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Attempting provider login", slog.String("provider", input.Provider))

	fetcher, ok := srv.fetchers[input.Provider]
	if !ok {
		return nil, errors.Wrapf(domainerrors.ErrProviderUnsupported, "no fetcher for provider %s", input.Provider)
	}

	profile, err := fetcher.FetchProfile(ctx, input.AccessToken)
	if err != nil {
		srv.log(ctx).Warn("Provider profile fetch failed", slog.String("provider", input.Provider), slog.Any("error", err))

		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = input.Provider + " user"
	}
	profileValues := buildProfileValues(srv.profileFields, profile)

	var loggedInUser *entity.User
	var accessToken, refreshTokenString string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, upsertErr := userRepo.UpsertFederated(ctx, input.Provider, profile.ID, name, profileValues)
		if upsertErr != nil {
			return errors.Wrap(upsertErr, "failed to upsert federated user")
		}
		loggedInUser = user

		var tokenErr error
		accessToken, refreshTokenString, tokenErr = srv.tokenService.GenerateTokens(user.ID)
		if tokenErr != nil {
			return errors.Wrap(tokenErr, "failed to generate tokens")
		}

		return srv.storeRefreshToken(ctx, repoFactory, user.ID, refreshTokenString)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute provider login transaction", slog.String("provider", input.Provider), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Provider login succeeded", slog.String("provider", input.Provider), slog.Int64("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         loggedInUser,
	}, nil
}

// RefreshToken issues a new access token using a refresh token.
// The refresh token remains unchanged for security reasons.
func (srv *accountService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	// Verify the refresh token still backs a live session.
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{
		AccessToken: newAccessToken,
	}, nil
}

// Logout invalidates a user's session by deleting their refresh token.
func (srv *accountService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// GetProfile retrieves a user's profile by ID.
func (srv *accountService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user not found")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// buildProfileValues intersects the deployment's enabled profile fields with
// what the provider actually returned. A disabled field is never stored; a
// field the provider omitted is not in the result, so the existing stored
// value survives the upsert untouched.
func buildProfileValues(enabled []string, profile *service.ProviderProfile) map[string]string {
	values := make(map[string]string, len(enabled))
	for _, field := range enabled {
		switch field {
		case repository.ProfileFieldAvatar:
			if profile.AvatarURL != "" {
				values[repository.ProfileFieldAvatar] = profile.AvatarURL
			}
		case repository.ProfileFieldLocation:
			if profile.Location != "" {
				values[repository.ProfileFieldLocation] = profile.Location
			}
		case repository.ProfileFieldEmail:
			if profile.Email != "" {
				values[repository.ProfileFieldEmail] = profile.Email
			}
		}
	}

	return values
}

func (srv *accountService) persistLoginRefreshToken(ctx context.Context, userID int64, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep count and insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeRefreshToken(ctx, repoFactory, userID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute login transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	if err := srv.storeRefreshTokenWithRepo(ctx, srv.refreshTokenRepo, userID, refreshTokenString); err != nil {
		return errors.Wrap(err, "failed to create refresh token during login")
	}

	return nil
}

// storeRefreshToken stores the refresh token in the database, enforcing the
// active session limit when one is configured.
func (srv *accountService) storeRefreshToken(ctx context.Context, repoFactory repository.RepositoryFactory, userID int64, refreshTokenString string) error {
	refreshRepo := repoFactory.NewRefreshTokenRepository()

	if srv.maxActiveSessions > 0 {
		activeSessions, err := refreshRepo.CountActiveSessionsByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, userID, refreshTokenString)
}

func (srv *accountService) storeRefreshTokenWithRepo(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID int64, refreshTokenString string) error {
	refreshTokenHash := srv.tokenService.HashToken(refreshTokenString)

	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: refreshTokenHash,
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// validatePasswordStrength checks the password against the configured policy.
func (srv *accountService) validatePasswordStrength(password string) error {
	cfg := srv.passwordStrength
	if cfg == nil {
		return nil
	}

	if cfg.MinLength > 0 && len(password) < cfg.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password too short")
	}
	if cfg.MaxLength > 0 && len(password) > cfg.MaxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage("password too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if cfg.RequireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs an uppercase letter")
	}
	if cfg.RequireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a lowercase letter")
	}
	if cfg.RequireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a digit")
	}
	if cfg.RequireSpecial && !hasSpecial {
		return domainerrors.ErrPasswordStrength.WrapMessage("password needs a special character")
	}

	return nil
}
