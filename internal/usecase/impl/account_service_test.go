package impl

import (
	"context"
	"testing"

	"bookmarket/config"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountHarness struct {
	service   usecase.AccountUsecase
	userRepo  *fakeUserRepo
	tokenRepo *fakeRefreshTokenRepo
	fetcher   *fakeFetcher
}

func newAccountHarness(t *testing.T, mutate func(*config.Config)) *accountHarness {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{},
		Provider: &config.ProviderConfig{
			ProfileFields: []string{"avatar", "location", "email"},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	fetcher := &fakeFetcher{
		provider: "facebook",
		profile: &service.ProviderProfile{
			ID:        "fb-1",
			Name:      "Alex Chen",
			Email:     "alex@example.com",
			AvatarURL: "https://graph.example.com/fb-1/picture",
			Location:  "Taipei, Taiwan",
		},
	}

	svc := NewAccountService(AccountServiceParams{
		TxManager:        &fakeTxManager{userRepo: userRepo, tokenRepo: tokenRepo},
		UserRepo:         userRepo,
		RefreshTokenRepo: tokenRepo,
		Hasher:           fakeHasher{},
		TokenService:     &fakeTokenService{},
		Fetchers:         []service.ProfileFetcher{fetcher},
		Config:           cfg,
		Logger:           testLogger(),
	})

	return &accountHarness{
		service:   svc,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		fetcher:   fetcher,
	}
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	out, err := h.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", out.User.Email)
	assert.Equal(t, "Sam", out.User.Name)

	login, err := h.service.Login(ctx, &usecase.LoginInput{
		Email:    "sam@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, out.User.ID, login.User.ID)

	sessions, err := h.tokenRepo.CountActiveSessionsByUserID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions)
}

func TestAccountService_RegisterNameDefaultsToEmail(t *testing.T) {
	h := newAccountHarness(t, nil)

	out, err := h.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "anon@example.com",
		Password: "some password",
	})
	require.NoError(t, err)
	assert.Equal(t, "anon@example.com", out.User.Name)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "dup@example.com",
		Password: "some password",
	})
	require.NoError(t, err)

	// Whitespace variants trim to the same address and are rejected.
	_, err = h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "  dup@example.com  ",
		Password: "other password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)

	// Matching is exact: a case variant registers as a distinct account.
	out, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "Dup@example.com",
		Password: "other password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dup@example.com", out.User.Email)
}

func TestAccountService_RegisterPasswordStrength(t *testing.T) {
	h := newAccountHarness(t, func(cfg *config.Config) {
		cfg.PasswordStrength = &config.PasswordStrengthConfig{
			MinLength:      8,
			RequireNumbers: true,
		}
	})

	_, err := h.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "weak@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)

	_, err = h.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "weak@example.com",
		Password: "longenough but no digits",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)

	_, err = h.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "strong@example.com",
		Password: "longenough with 9 digits",
	})
	assert.NoError(t, err)
}

func TestAccountService_LoginWrongPassword(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "sam@example.com",
		Password: "right",
	})
	require.NoError(t, err)

	_, err = h.service.Login(ctx, &usecase.LoginInput{
		Email:    "sam@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = h.service.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "right",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_SessionLimit(t *testing.T) {
	h := newAccountHarness(t, func(cfg *config.Config) {
		cfg.Auth.MaxActiveSessions = 2
	})
	ctx := context.Background()

	_, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "sam@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	input := &usecase.LoginInput{Email: "sam@example.com", Password: "correct horse"}

	_, err = h.service.Login(ctx, input)
	require.NoError(t, err)
	_, err = h.service.Login(ctx, input)
	require.NoError(t, err)

	_, err = h.service.Login(ctx, input)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
}

func TestAccountService_ProviderLoginIsIdempotent(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	first, err := h.service.ProviderLogin(ctx, &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex Chen", first.User.Name)
	assert.Equal(t, "alex@example.com", first.User.Email)
	assert.Equal(t, "Taipei, Taiwan", first.User.Location)

	// The provider renamed the user; the next login refreshes the profile
	// but resolves to the same local account.
	h.fetcher.profile.Name = "Alexandra Chen"

	second, err := h.service.ProviderLogin(ctx, &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-2",
	})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Alexandra Chen", second.User.Name)
}

func TestAccountService_ProviderLoginOmittedFieldSurvives(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.ProviderLogin(ctx, &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-1",
	})
	require.NoError(t, err)

	// The user revoked location sharing: the provider now omits the field.
	h.fetcher.profile.Location = ""

	out, err := h.service.ProviderLogin(ctx, &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Taipei, Taiwan", out.User.Location, "omitted field must not overwrite the stored value")
}

func TestAccountService_ProviderLoginDisabledFieldNeverStored(t *testing.T) {
	h := newAccountHarness(t, func(cfg *config.Config) {
		cfg.Provider.ProfileFields = []string{"avatar"}
	})

	out, err := h.service.ProviderLogin(context.Background(), &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.User.Avatar)
	assert.Empty(t, out.User.Location)
	assert.Empty(t, out.User.Email)
}

func TestAccountService_ProviderLoginUnknownProvider(t *testing.T) {
	h := newAccountHarness(t, nil)

	_, err := h.service.ProviderLogin(context.Background(), &usecase.ProviderLoginInput{
		Provider:    "myspace",
		AccessToken: "token",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProviderUnsupported)
	assert.Zero(t, h.fetcher.calls)
}

func TestAccountService_RegisterAttachesLocalCredentialToFederatedAccount(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	federated, err := h.service.ProviderLogin(ctx, &usecase.ProviderLoginInput{
		Provider:    "facebook",
		AccessToken: "token-1",
	})
	require.NoError(t, err)

	// Registering with the email the provider cached attaches a password to
	// the same row instead of creating a second account.
	out, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "alex@example.com",
		Password: "new password",
	})
	require.NoError(t, err)
	assert.Equal(t, federated.User.ID, out.User.ID)

	login, err := h.service.Login(ctx, &usecase.LoginInput{
		Email:    "alex@example.com",
		Password: "new password",
	})
	require.NoError(t, err)
	assert.Equal(t, federated.User.ID, login.User.ID)
}

func TestAccountService_RefreshAndLogout(t *testing.T) {
	h := newAccountHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.Register(ctx, &usecase.RegisterInput{
		Email:    "sam@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	login, err := h.service.Login(ctx, &usecase.LoginInput{
		Email:    "sam@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	refreshed, err := h.service.RefreshToken(ctx, &usecase.RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)

	require.NoError(t, h.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	_, err = h.service.RefreshToken(ctx, &usecase.RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_RefreshWithGarbageToken(t *testing.T) {
	h := newAccountHarness(t, nil)

	_, err := h.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{
		RefreshToken: "not a token",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}
