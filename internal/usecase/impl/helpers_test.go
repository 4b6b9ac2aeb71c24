package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"bookmarket/internal/domain/entity"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- in-memory user repository ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && user.Email != "" {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByProvider(_ context.Context, provider, providerUserID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Provider == provider && user.ProviderUserID == providerUserID {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

// UpsertFederated mirrors the SQL upsert: insert on first login, refresh the
// name and only the supplied profile fields afterwards.
func (r *fakeUserRepo) UpsertFederated(_ context.Context, provider, providerUserID, name string, profile map[string]string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *entity.User
	for _, user := range r.users {
		if user.Provider == provider && user.ProviderUserID == providerUserID {
			target = user

			break
		}
	}

	if target == nil {
		r.nextID++
		target = &entity.User{
			ID:             r.nextID,
			Provider:       provider,
			ProviderUserID: providerUserID,
			CreatedAt:      time.Now(),
		}
		r.users[target.ID] = target
	}

	target.Name = name
	for field, value := range profile {
		switch field {
		case repository.ProfileFieldAvatar:
			target.Avatar = value
		case repository.ProfileFieldLocation:
			target.Location = value
		case repository.ProfileFieldEmail:
			target.Email = value
		}
	}
	target.UpdatedAt = time.Now()

	clone := *target

	return &clone, nil
}

// --- in-memory refresh token repository ---

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[int64]*entity.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[int64]*entity.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.ID] = &clone

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			if token.ExpiresAt.Before(time.Now()) {
				return nil, repository.ErrRefreshTokenExpired
			}
			clone := *token

			return &clone, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) FindRefreshTokensByUserID(_ context.Context, userID int64) ([]*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.RefreshToken
	for _, token := range r.tokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			clone := *token
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshToken(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[id]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.tokens, id)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, token := range r.tokens {
		if token.TokenHash == tokenHash {
			delete(r.tokens, id)

			return nil
		}
	}

	return repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, token := range r.tokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveSessionsByUserID(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			count++
		}
	}

	return count, nil
}

// --- transaction manager ---

// fakeTxManager runs the callback directly against the shared fakes; the
// tests assert business behavior, not transactional isolation.
type fakeTxManager struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	postRepo  repository.PostRepository
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{m: m})
}

type fakeRepoFactory struct {
	m *fakeTxManager
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return f.m.userRepo
}

func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.m.tokenRepo
}

func (f *fakeRepoFactory) NewPostRepository() repository.PostRepository {
	return f.m.postRepo
}

// --- password hashing and tokens ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokenService struct {
	mu      sync.Mutex
	counter int
}

func (s *fakeTokenService) GenerateTokens(userID int64) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++

	return fmt.Sprintf("access-%d-%d", userID, s.counter), fmt.Sprintf("refresh-%d-%d", userID, s.counter), nil
}

func (s *fakeTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.parse(tokenString, "access-")
}

func (s *fakeTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.parse(tokenString, "refresh-")
}

func (s *fakeTokenService) parse(tokenString, prefix string) (*service.Claims, error) {
	rest, ok := strings.CutPrefix(tokenString, prefix)
	if !ok {
		return nil, fmt.Errorf("malformed token %q", tokenString)
	}

	var userID int64
	var counter int
	if _, err := fmt.Sscanf(rest, "%d-%d", &userID, &counter); err != nil {
		return nil, fmt.Errorf("malformed token %q", tokenString)
	}

	return &service.Claims{UserID: userID}, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 30 * 24 * time.Hour
}

// --- provider profile fetcher ---

type fakeFetcher struct {
	provider string
	profile  *service.ProviderProfile
	err      error
	calls    int
}

func (f *fakeFetcher) FetchProfile(_ context.Context, _ string) (*service.ProviderProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.profile

	return &clone, nil
}

func (f *fakeFetcher) Provider() string {
	return f.provider
}

// --- event publisher ---

type fakePublisher struct {
	mu     sync.Mutex
	events []*service.ListingEvent
	err    error
}

func (p *fakePublisher) PublishListingEvent(_ context.Context, event *service.ListingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	clone := *event
	p.events = append(p.events, &clone)

	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}
