package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookmarket/config"
	domainerrors "bookmarket/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(graphURL string, timeout time.Duration) *ProfileService {
	cfg := &config.Config{
		Provider: &config.ProviderConfig{
			Facebook: &config.FacebookConfig{
				GraphURL: graphURL,
				Timeout:  timeout,
			},
		},
	}

	return NewProfileService(cfg).(*ProfileService)
}

func TestProfileService_FetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "id,name,email,location", r.URL.Query().Get("fields"))
		assert.Equal(t, "valid-token", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-123","name":"Alex Chen","email":"alex@example.com","location":{"name":"Taipei, Taiwan"}}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL, time.Second)

	profile, err := svc.FetchProfile(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-123", profile.ID)
	assert.Equal(t, "Alex Chen", profile.Name)
	assert.Equal(t, "alex@example.com", profile.Email)
	assert.Equal(t, "Taipei, Taiwan", profile.Location)
	assert.Equal(t, server.URL+"/fb-123/picture?type=large", profile.AvatarURL)
}

func TestProfileService_OmittedFieldsStayEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// User shared neither email nor location.
		_, _ = w.Write([]byte(`{"id":"fb-456","name":"Sam"}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL, time.Second)

	profile, err := svc.FetchProfile(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-456", profile.ID)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Location)
}

func TestProfileService_RejectedTokenIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token."}}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL, time.Second)

	_, err := svc.FetchProfile(context.Background(), "bad-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProviderTokenInvalid)
	assert.Equal(t, int32(1), calls.Load())
}

func TestProfileService_TransientFailureRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}
		_, _ = w.Write([]byte(`{"id":"fb-789","name":"Kim"}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL, time.Second)

	profile, err := svc.FetchProfile(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-789", profile.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProfileService_TimeoutMapsToAuthFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"fb-1"}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL, 20*time.Millisecond)

	_, err := svc.FetchProfile(context.Background(), "valid-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProviderUnreachable)
	// Exactly one retry: two round trips, then the caller gets a 401-class error.
	assert.Equal(t, int32(2), calls.Load())
}
