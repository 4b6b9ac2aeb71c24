package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory book repository ---

type fakeBookRepo struct {
	mu    sync.Mutex
	books map[int64]*entity.Book
}

func newFakeBookRepo(books ...*entity.Book) *fakeBookRepo {
	repo := &fakeBookRepo{books: make(map[int64]*entity.Book)}
	for _, book := range books {
		repo.books[book.ID] = book
	}

	return repo
}

func (r *fakeBookRepo) List(_ context.Context, _, _ int, _ repository.BookSort) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Book, 0, len(r.books))
	for _, book := range r.books {
		clone := *book
		out = append(out, &clone)
	}

	return out, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id int64) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	clone := *book

	return &clone, nil
}

func (r *fakeBookRepo) FindByISBN(_ context.Context, isbn string) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, book := range r.books {
		if book.ISBN == isbn {
			clone := *book

			return &clone, nil
		}
	}

	return nil, repository.ErrBookNotFound
}

func (r *fakeBookRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) FindByTagID(_ context.Context, _ int64) ([]*entity.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) FindByTagName(_ context.Context, _ string) ([]*entity.Book, error) {
	return nil, nil
}

// --- in-memory post repository ---

type fakePostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*entity.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*entity.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	clone := *post
	r.posts[post.ID] = &clone

	return nil
}

func (r *fakePostRepo) FindPostByID(_ context.Context, id int64) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	clone := *post

	return &clone, nil
}

func (r *fakePostRepo) FindPostsByBook(_ context.Context, bookID int64) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Post
	for _, post := range r.posts {
		if post.BookID == bookID {
			clone := *post
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakePostRepo) FindPostsBySeller(_ context.Context, sellerID int64) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Post
	for _, post := range r.posts {
		if post.SellerID == sellerID {
			clone := *post
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)

	return nil
}

// --- tests ---

type listingHarness struct {
	service   usecase.ListingUsecase
	postRepo  *fakePostRepo
	userRepo  *fakeUserRepo
	publisher *fakePublisher
}

func newListingHarness(t *testing.T) *listingHarness {
	t.Helper()

	postRepo := newFakePostRepo()
	bookRepo := newFakeBookRepo(&entity.Book{ID: 7, Name: "The Go Programming Language"})
	userRepo := newFakeUserRepo()
	userRepo.users[42] = &entity.User{ID: 42, Name: "Sam"}
	publisher := &fakePublisher{}

	svc := NewListingService(ListingServiceParams{
		TxManager: &fakeTxManager{postRepo: postRepo},
		PostRepo:  postRepo,
		BookRepo:  bookRepo,
		UserRepo:  userRepo,
		Publisher: publisher,
		Logger:    testLogger(),
	})

	return &listingHarness{
		service:   svc,
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

func TestListingService_CreatePublishesOneEvent(t *testing.T) {
	h := newListingHarness(t)

	post, err := h.service.Create(context.Background(), &usecase.CreatePostInput{
		SellerID: 42,
		BookID:   7,
		Content:  "  lightly used  ",
		Price:    250,
		Images:   []string{"https://img.example.com/1.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "lightly used", post.Content)
	assert.Equal(t, entity.PostStatusOpen, post.Status)

	require.Len(t, h.publisher.events, 1)
	event := h.publisher.events[0]
	assert.Equal(t, post.ID, event.PostID)
	assert.Equal(t, int64(7), event.BookID)
	assert.Equal(t, "The Go Programming Language", event.BookName)
	assert.Equal(t, int64(42), event.SellerID)
	assert.Equal(t, "Sam", event.SellerName)
	assert.Equal(t, 250, event.Price)
}

func TestListingService_CreateSurvivesMissingSellerProfile(t *testing.T) {
	h := newListingHarness(t)

	post, err := h.service.Create(context.Background(), &usecase.CreatePostInput{
		SellerID: 77, // not in the user repo
		BookID:   7,
		Price:    100,
	})
	require.NoError(t, err, "an unresolvable seller name must not fail the listing")
	assert.NotZero(t, post.ID)

	require.Len(t, h.publisher.events, 1)
	assert.Empty(t, h.publisher.events[0].SellerName)
}

func TestListingService_CreateUnknownBook(t *testing.T) {
	h := newListingHarness(t)

	_, err := h.service.Create(context.Background(), &usecase.CreatePostInput{
		SellerID: 42,
		BookID:   999,
		Price:    100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBookNotFound)
	assert.Empty(t, h.publisher.events)
}

func TestListingService_CreateSurvivesPublishFailure(t *testing.T) {
	h := newListingHarness(t)
	h.publisher.err = assert.AnError

	post, err := h.service.Create(context.Background(), &usecase.CreatePostInput{
		SellerID: 42,
		BookID:   7,
		Price:    100,
	})
	require.NoError(t, err, "a lost event must not fail the listing")

	stored, err := h.postRepo.FindPostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, stored.ID)
}

func TestListingService_DeleteOwnerOnly(t *testing.T) {
	h := newListingHarness(t)
	ctx := context.Background()

	post, err := h.service.Create(ctx, &usecase.CreatePostInput{
		SellerID: 42,
		BookID:   7,
		Price:    100,
	})
	require.NoError(t, err)

	err = h.service.Delete(ctx, 99, post.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, h.service.Delete(ctx, 42, post.ID))

	_, err = h.postRepo.FindPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestListingService_DeleteMissingPost(t *testing.T) {
	h := newListingHarness(t)

	err := h.service.Delete(context.Background(), 42, 12345)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}
