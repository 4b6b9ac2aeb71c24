package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookmarket/internal/delivery/http/middleware"
	"bookmarket/internal/delivery/http/validator"
	"bookmarket/internal/domain/entity"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountUsecase records inputs and returns canned outputs.
type fakeAccountUsecase struct {
	registerInput *usecase.RegisterInput
	providerInput *usecase.ProviderLoginInput
	user          *entity.User
}

func (f *fakeAccountUsecase) Register(_ context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	f.registerInput = input

	return &usecase.RegisterOutput{User: f.user}, nil
}

func (f *fakeAccountUsecase) Login(_ context.Context, _ *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return &usecase.LoginOutput{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         f.user,
	}, nil
}

func (f *fakeAccountUsecase) ProviderLogin(_ context.Context, input *usecase.ProviderLoginInput) (*usecase.LoginOutput, error) {
	f.providerInput = input

	return &usecase.LoginOutput{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         f.user,
	}, nil
}

func (f *fakeAccountUsecase) RefreshToken(_ context.Context, _ *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	return &usecase.RefreshTokenOutput{AccessToken: "new-access-token"}, nil
}

func (f *fakeAccountUsecase) Logout(_ context.Context, _ *usecase.LogoutInput) error {
	return nil
}

func (f *fakeAccountUsecase) GetProfile(_ context.Context, _ int64) (*entity.User, error) {
	return f.user, nil
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newAccountTestHandler() (*fakeAccountUsecase, *AccountHandler) {
	uc := &fakeAccountUsecase{
		user: &entity.User{
			ID:           42,
			Name:         "Sam",
			Email:        "sam@example.com",
			PasswordHash: "$2a$10$secret",
		},
	}

	return uc, NewAccountHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAccountHandler_Register(t *testing.T) {
	uc, h := newAccountTestHandler()

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Sam","email":"sam@example.com","password":"correct horse"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.registerInput)
	assert.Equal(t, "sam@example.com", uc.registerInput.Email)

	// The password hash must never appear in the response body.
	assert.Contains(t, rec.Body.String(), "sam@example.com")
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestAccountHandler_RegisterRejectsBadEmail(t *testing.T) {
	uc, h := newAccountTestHandler()

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"not-an-email","password":"correct horse"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.registerInput, "the usecase must not run on invalid input")
}

func TestAccountHandler_ProviderLoginUsesPathParam(t *testing.T) {
	uc, h := newAccountTestHandler()

	c, rec := newTestContext(t, http.MethodPost, "/auth/facebook",
		`{"access_token":"fb-token"}`)
	c.SetParamNames("provider")
	c.SetParamValues("facebook")

	require.NoError(t, h.ProviderLogin(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.providerInput)
	assert.Equal(t, "facebook", uc.providerInput.Provider)
	assert.Equal(t, "fb-token", uc.providerInput.AccessToken)
	assert.Contains(t, rec.Body.String(), "access-token")
}

func TestAccountHandler_GetProfile(t *testing.T) {
	_, h := newAccountTestHandler()

	c, rec := newTestContext(t, http.MethodGet, "/profile", "")
	c.Set(middleware.ContextKeyUserID, int64(42))

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
}

func TestAccountHandler_GetProfileWithoutAuth(t *testing.T) {
	_, h := newAccountTestHandler()

	c, rec := newTestContext(t, http.MethodGet, "/profile", "")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
