// Package facebook exchanges Facebook access tokens for user profiles
// through the Graph API.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookmarket/config"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultGraphURL = "https://graph.facebook.com"
	defaultTimeout  = 5 * time.Second

	// The Graph fields the login flow needs. Anything the user has not
	// shared simply comes back absent.
	profileFields = "id,name,email,location"
)

// ProfileService fetches Facebook user profiles with a bounded timeout and
// a single retry on transient failure. A provider that stays unreachable is
// surfaced as an authentication failure so clients see a 401, never a 500.
type ProfileService struct {
	graphURL string
	client   *http.Client
}

// NewProfileService creates a Graph API profile fetcher from configuration.
func NewProfileService(cfg *config.Config) service.ProfileFetcher {
	graphURL := defaultGraphURL
	timeout := defaultTimeout
	if cfg != nil && cfg.Provider != nil && cfg.Provider.Facebook != nil {
		if cfg.Provider.Facebook.GraphURL != "" {
			graphURL = strings.TrimRight(cfg.Provider.Facebook.GraphURL, "/")
		}
		if cfg.Provider.Facebook.Timeout > 0 {
			timeout = cfg.Provider.Facebook.Timeout
		}
	}

	return &ProfileService{
		graphURL: graphURL,
		client:   &http.Client{Timeout: timeout},
	}
}

// Provider returns the provider tag this fetcher serves.
func (s *ProfileService) Provider() string {
	return "facebook"
}

// FetchProfile verifies the access token against the Graph API and returns
// the associated profile. Transient transport failures are retried once;
// a definitive rejection from the provider is not.
func (s *ProfileService) FetchProfile(ctx context.Context, accessToken string) (*service.ProviderProfile, error) {
	profile, retryable, err := s.fetchOnce(ctx, accessToken)
	if err == nil {
		return profile, nil
	}
	if !retryable {
		return nil, err
	}

	profile, _, err = s.fetchOnce(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// fetchOnce performs a single Graph API round trip. The second return value
// reports whether the failure is worth one retry.
func (s *ProfileService) fetchOnce(ctx context.Context, accessToken string) (*service.ProviderProfile, bool, error) {
	params := url.Values{}
	params.Set("fields", profileFields)
	params.Set("access_token", accessToken)
	endpoint := s.graphURL + "/me?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to create graph request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Timeout or transport failure. One retry, then give up as an
		// auth failure rather than surfacing a server error.
		return nil, true, errors.Wrap(domainerrors.ErrProviderUnreachable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)

		return nil, true, errors.Wrapf(domainerrors.ErrProviderUnreachable, "graph returned status %d: %s", resp.StatusCode, string(body))
	default:
		// 4xx: the provider looked at the token and said no.
		return nil, false, errors.Wrapf(domainerrors.ErrProviderTokenInvalid, "graph returned status %d", resp.StatusCode)
	}

	var graphUser struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&graphUser); err != nil {
		return nil, false, errors.Wrap(err, "failed to decode graph response")
	}
	if graphUser.ID == "" {
		return nil, false, errors.Wrap(domainerrors.ErrProviderTokenInvalid, "graph response missing user id")
	}

	return &service.ProviderProfile{
		ID:        graphUser.ID,
		Name:      graphUser.Name,
		Email:     graphUser.Email,
		AvatarURL: s.avatarURL(graphUser.ID),
		Location:  graphUser.Location.Name,
	}, false, nil
}

// avatarURL builds the stable large-picture URL for a Facebook user.
func (s *ProfileService) avatarURL(userID string) string {
	return fmt.Sprintf("%s/%s/picture?type=large", s.graphURL, userID)
}
