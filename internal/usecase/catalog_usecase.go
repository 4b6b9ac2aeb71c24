package usecase

import (
	"context"

	"bookmarket/internal/domain/entity"
)

// TagBooksOutput bundles a tag with the books carrying it.
type TagBooksOutput struct {
	Tag   *entity.Tag
	Books []*entity.Book
}

// CatalogUsecase defines read operations over the shared book catalog.
type CatalogUsecase interface {
	// ListBooks retrieves one page of the catalog. Sort accepts "sale"
	// (listing count) or "comment" (comment count); anything else falls
	// back to sale ordering.
	ListBooks(ctx context.Context, page int, sort string) ([]*entity.Book, error)

	// GetBook retrieves a single book with its tags and counts.
	GetBook(ctx context.Context, id int64) (*entity.Book, error)

	// GetBookByISBN retrieves a single book by ISBN.
	GetBookByISBN(ctx context.Context, isbn string) (*entity.Book, error)

	// SearchBooks retrieves books whose title matches the query.
	SearchBooks(ctx context.Context, query string, page int) ([]*entity.Book, error)

	// ListTags retrieves every catalog tag.
	ListTags(ctx context.Context) ([]*entity.Tag, error)

	// GetTagBooks retrieves a tag and all books carrying it.
	GetTagBooks(ctx context.Context, tagID int64) (*TagBooksOutput, error)

	// GetTagBooksByName retrieves all books carrying the named tag.
	GetTagBooksByName(ctx context.Context, name string) ([]*entity.Book, error)

	// GetBookTags retrieves the tag names attached to a book.
	GetBookTags(ctx context.Context, bookID int64) ([]string, error)

	// BookShareQR renders a PNG QR code encoding the book's share link.
	BookShareQR(ctx context.Context, bookID int64) ([]byte, error)
}
