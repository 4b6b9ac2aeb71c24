package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "bookmarket/internal/delivery/context"
	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// listingService implements the ListingUsecase interface.
type listingService struct {
	txManager repository.TransactionManager
	postRepo  repository.PostRepository
	bookRepo  repository.BookRepository
	userRepo  repository.UserRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// ListingServiceParams holds dependencies for ListingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	BookRepo  repository.BookRepository
	UserRepo  repository.UserRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewListingService is the constructor for listingService.
func NewListingService(params ListingServiceParams) usecase.ListingUsecase {
	return &listingService{
		txManager: params.TxManager,
		postRepo:  params.PostRepo,
		bookRepo:  params.BookRepo,
		userRepo:  params.UserRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *listingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListByBook retrieves all listings for a book, newest first.
func (srv *listingService) ListByBook(ctx context.Context, bookID int64) ([]*entity.Post, error) {
	posts, err := srv.postRepo.FindPostsByBook(ctx, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find posts by book")
	}

	return posts, nil
}

// ListBySeller retrieves all listings published by a user.
func (srv *listingService) ListBySeller(ctx context.Context, sellerID int64) ([]*entity.Post, error) {
	posts, err := srv.postRepo.FindPostsBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find posts by seller")
	}

	return posts, nil
}

// Create publishes a new listing and emits exactly one listing event.
// The event is published after the transaction commits: a failed publish
// leaves the listing in place, it only delays the push fanout.
func (srv *listingService) Create(ctx context.Context, input *usecase.CreatePostInput) (*entity.Post, error) {
	if input.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price must not be negative")
	}

	book, err := srv.bookRepo.FindByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("listing references unknown book")
		}

		return nil, errors.Wrap(err, "failed to find book for listing")
	}

	post := &entity.Post{
		BookID:   input.BookID,
		SellerID: input.SellerID,
		Content:  strings.TrimSpace(input.Content),
		Price:    input.Price,
		Status:   entity.PostStatusOpen,
		Images:   input.Images,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewPostRepository().CreatePost(ctx, post)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create listing", slog.Int64("bookID", input.BookID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create listing transaction")
	}

	// The push body names the seller. Losing the name only degrades the
	// notification copy, so a failed lookup must not fail the listing.
	sellerName := ""
	if seller, lookupErr := srv.userRepo.FindByID(ctx, post.SellerID); lookupErr != nil {
		srv.log(ctx).Warn("Failed to resolve seller for listing event", slog.Int64("sellerID", post.SellerID), slog.Any("error", lookupErr))
	} else {
		sellerName = seller.Name
	}

	event := &service.ListingEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		PostID:     post.ID,
		BookID:     book.ID,
		BookName:   book.Name,
		Price:      post.Price,
		SellerID:   post.SellerID,
		SellerName: sellerName,
	}
	if err := srv.publisher.PublishListingEvent(ctx, event); err != nil {
		// The listing already exists; losing the event only means followers
		// are not pushed this time.
		srv.log(ctx).Error("Failed to publish listing event", slog.Int64("postID", post.ID), slog.Any("error", err))
	}

	return post, nil
}

// Delete removes a listing. Only the seller may delete their own listing.
func (srv *listingService) Delete(ctx context.Context, userID, postID int64) error {
	post, err := srv.postRepo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return domainerrors.ErrPostNotFound.WrapMessage("listing not found")
		}

		return errors.Wrap(err, "failed to find post")
	}

	if post.SellerID != userID {
		srv.log(ctx).Warn("Refusing to delete listing owned by another user",
			slog.Int64("postID", postID),
			slog.Int64("userID", userID),
		)

		return domainerrors.ErrForbidden.WrapMessage("only the seller may delete a listing")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewPostRepository().DeletePost(ctx, postID)
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute delete listing transaction")
	}

	return nil
}
