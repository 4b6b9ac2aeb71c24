package usecase

import (
	"context"

	"bookmarket/internal/domain/entity"
)

// CreatePostInput defines the data required to publish a sell listing.
type CreatePostInput struct {
	SellerID int64
	BookID   int64
	Content  string
	Price    int
	Images   []string
}

// ListingUsecase defines the interface for sell-listing operations.
type ListingUsecase interface {
	// ListByBook retrieves all listings for a book, newest first.
	ListByBook(ctx context.Context, bookID int64) ([]*entity.Post, error)

	// ListBySeller retrieves all listings published by a user.
	ListBySeller(ctx context.Context, sellerID int64) ([]*entity.Post, error)

	// Create publishes a new listing and emits a listing event so users
	// following the book get notified.
	Create(ctx context.Context, input *CreatePostInput) (*entity.Post, error)

	// Delete removes a listing. Only the seller may delete their own listing.
	Delete(ctx context.Context, userID, postID int64) error
}

// CreateCommentInput defines the data required to comment on a book.
type CreateCommentInput struct {
	AuthorID int64
	BookID   int64
	Content  string
}

// CommentUsecase defines the interface for book-comment operations.
type CommentUsecase interface {
	// ListByBook retrieves one page of a book's comments, newest first.
	ListByBook(ctx context.Context, bookID int64, page int) ([]*entity.Comment, error)

	// Get retrieves a single comment.
	Get(ctx context.Context, id int64) (*entity.Comment, error)

	// Create posts a comment on a book. Content is trimmed; empty content
	// is rejected.
	Create(ctx context.Context, input *CreateCommentInput) (*entity.Comment, error)
}

// FavoriteUsecase defines the interface for followed-book operations.
type FavoriteUsecase interface {
	// ListBooks retrieves the books a user follows.
	ListBooks(ctx context.Context, userID int64) ([]*entity.Book, error)

	// Add records that a user follows a book. Idempotent.
	Add(ctx context.Context, userID, bookID int64) error

	// Remove stops following a book.
	Remove(ctx context.Context, userID, bookID int64) error
}
