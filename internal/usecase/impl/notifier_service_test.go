package impl

import (
	"context"
	"sync"
	"testing"

	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory favorite repository ---

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[int64][]int64 // bookID -> userIDs
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[int64][]int64)}
}

func (r *fakeFavoriteRepo) FindBooksByUser(_ context.Context, _ int64) ([]*entity.Book, error) {
	return nil, nil
}

func (r *fakeFavoriteRepo) AddFavorite(_ context.Context, userID, bookID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.favorites[bookID] {
		if existing == userID {
			return nil
		}
	}
	r.favorites[bookID] = append(r.favorites[bookID], userID)

	return nil
}

func (r *fakeFavoriteRepo) RemoveFavorite(_ context.Context, userID, bookID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.favorites[bookID]
	for i, existing := range users {
		if existing == userID {
			r.favorites[bookID] = append(users[:i], users[i+1:]...)

			break
		}
	}

	return nil
}

func (r *fakeFavoriteRepo) FindUserIDsByBook(_ context.Context, bookID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int64(nil), r.favorites[bookID]...), nil
}

// --- in-memory device repository ---

type fakeDeviceRepo struct {
	mu      sync.Mutex
	nextID  int64
	devices map[int64]*entity.UserDevice
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[int64]*entity.UserDevice)}
}

func (r *fakeDeviceRepo) addActive(userID int64, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.devices[r.nextID] = &entity.UserDevice{
		ID:       r.nextID,
		UserID:   userID,
		FCMToken: token,
		DeviceID: token,
		Platform: "ios",
		IsActive: true,
	}
}

func (r *fakeDeviceRepo) CreateDevice(_ context.Context, device *entity.UserDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	device.ID = r.nextID
	clone := *device
	r.devices[device.ID] = &clone

	return nil
}

func (r *fakeDeviceRepo) FindDeviceByID(_ context.Context, id int64) (*entity.UserDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, repository.ErrDeviceNotFound
	}
	clone := *device

	return &clone, nil
}

func (r *fakeDeviceRepo) FindDevicesByUser(_ context.Context, userID int64) ([]*entity.UserDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.UserDevice
	for _, device := range r.devices {
		if device.UserID == userID {
			clone := *device
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeDeviceRepo) FindActiveDevicesByUsers(_ context.Context, userIDs []int64) ([]*entity.UserDevice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	var out []*entity.UserDevice
	for _, device := range r.devices {
		if _, ok := wanted[device.UserID]; ok && device.IsActive {
			clone := *device
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeDeviceRepo) UpdateFCMToken(_ context.Context, deviceID int64, fcmToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[deviceID]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.FCMToken = fcmToken

	return nil
}

func (r *fakeDeviceRepo) DeactivateDevice(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.IsActive = false

	return nil
}

func (r *fakeDeviceRepo) DeactivateByFCMTokens(_ context.Context, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dead := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		dead[token] = struct{}{}
	}
	for _, device := range r.devices {
		if _, ok := dead[device.FCMToken]; ok {
			device.IsActive = false
		}
	}

	return nil
}

func (r *fakeDeviceRepo) activeTokens() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]bool)
	for _, device := range r.devices {
		out[device.FCMToken] = device.IsActive
	}

	return out
}

// --- fake FCM ---

type fakeNotification struct {
	mu            sync.Mutex
	batches       [][]string
	titles        []string
	bodies        []string
	invalidTokens map[string]struct{}
}

func (n *fakeNotification) SendBatchNotification(_ context.Context, tokens []string, title, body string, _ map[string]string) (int, int, []string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.batches = append(n.batches, append([]string(nil), tokens...))
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)

	var invalid []string
	success := 0
	for _, token := range tokens {
		if _, bad := n.invalidTokens[token]; bad {
			invalid = append(invalid, token)

			continue
		}
		success++
	}

	return success, len(invalid), invalid, nil
}

func (n *fakeNotification) SendSingleNotification(_ context.Context, _, _, _ string, _ map[string]string) error {
	return nil
}

// --- tests ---

func newNotifierHarness(t *testing.T) (*fakeFavoriteRepo, *fakeDeviceRepo, *fakeNotification, *notifierService) {
	t.Helper()

	favoriteRepo := newFakeFavoriteRepo()
	deviceRepo := newFakeDeviceRepo()
	notification := &fakeNotification{invalidTokens: make(map[string]struct{})}

	svc := NewNotifierService(NotifierServiceParams{
		FavoriteRepo: favoriteRepo,
		DeviceRepo:   deviceRepo,
		Notification: notification,
		Logger:       testLogger(),
	}).(*notifierService)

	return favoriteRepo, deviceRepo, notification, svc
}

func TestNotifierService_FansOutToFollowers(t *testing.T) {
	favoriteRepo, deviceRepo, notification, svc := newNotifierHarness(t)
	ctx := context.Background()

	require.NoError(t, favoriteRepo.AddFavorite(ctx, 1, 7))
	require.NoError(t, favoriteRepo.AddFavorite(ctx, 2, 7))
	deviceRepo.addActive(1, "token-1")
	deviceRepo.addActive(2, "token-2a")
	deviceRepo.addActive(2, "token-2b")

	result, err := svc.NotifyNewListing(ctx, &service.ListingEvent{
		PostID:   100,
		BookID:   7,
		BookName: "The Go Programming Language",
		Price:    250,
		SellerID: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Recipients)
	assert.Equal(t, 3, result.TokensSent)
	assert.Equal(t, 3, result.Delivered)
	assert.Zero(t, result.Failed)
	require.Len(t, notification.batches, 1)
}

func TestNotifierService_PushBodyNamesSeller(t *testing.T) {
	favoriteRepo, deviceRepo, notification, svc := newNotifierHarness(t)
	ctx := context.Background()

	require.NoError(t, favoriteRepo.AddFavorite(ctx, 1, 7))
	deviceRepo.addActive(1, "token-1")

	_, err := svc.NotifyNewListing(ctx, &service.ListingEvent{
		PostID:     100,
		BookID:     7,
		BookName:   "The Go Programming Language",
		Price:      250,
		SellerID:   42,
		SellerName: "Sam",
	})
	require.NoError(t, err)

	require.Len(t, notification.bodies, 1)
	assert.Equal(t, "Sam is selling a copy you follow at $250", notification.bodies[0])
	assert.Equal(t, "New listing: The Go Programming Language", notification.titles[0])

	// An event without a seller name falls back to generic copy.
	_, err = svc.NotifyNewListing(ctx, &service.ListingEvent{
		PostID:   101,
		BookID:   7,
		BookName: "The Go Programming Language",
		Price:    250,
		SellerID: 42,
	})
	require.NoError(t, err)

	require.Len(t, notification.bodies, 2)
	assert.Equal(t, "A copy you follow is up for sale at $250", notification.bodies[1])
}

func TestNotifierService_SellerIsExcluded(t *testing.T) {
	favoriteRepo, deviceRepo, notification, svc := newNotifierHarness(t)
	ctx := context.Background()

	// The seller follows their own book.
	require.NoError(t, favoriteRepo.AddFavorite(ctx, 42, 7))
	deviceRepo.addActive(42, "seller-token")

	result, err := svc.NotifyNewListing(ctx, &service.ListingEvent{
		PostID:   100,
		BookID:   7,
		SellerID: 42,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Recipients)
	assert.Zero(t, result.TokensSent)
	assert.Empty(t, notification.batches)
}

func TestNotifierService_PrunesInvalidTokens(t *testing.T) {
	favoriteRepo, deviceRepo, notification, svc := newNotifierHarness(t)
	ctx := context.Background()

	require.NoError(t, favoriteRepo.AddFavorite(ctx, 1, 7))
	deviceRepo.addActive(1, "live-token")
	deviceRepo.addActive(1, "dead-token")
	notification.invalidTokens["dead-token"] = struct{}{}

	result, err := svc.NotifyNewListing(ctx, &service.ListingEvent{
		PostID:   100,
		BookID:   7,
		SellerID: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.TokensPruned)

	active := deviceRepo.activeTokens()
	assert.True(t, active["live-token"])
	assert.False(t, active["dead-token"])
}

func TestNotifierService_RejectsIncompleteEvent(t *testing.T) {
	_, _, _, svc := newNotifierHarness(t)

	_, err := svc.NotifyNewListing(context.Background(), &service.ListingEvent{PostID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
