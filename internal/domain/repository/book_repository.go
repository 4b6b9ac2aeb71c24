// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"bookmarket/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrTagNotFound is returned when a tag is not found.
	ErrTagNotFound = errors.New("tag not found")
)

// BookSort selects the ordering of catalog listings.
type BookSort string

// Supported catalog orderings.
const (
	// BookSortBySale orders by number of active listings, busiest first.
	BookSortBySale BookSort = "sale"
	// BookSortByComment orders by number of comments, busiest first.
	BookSortByComment BookSort = "comment"
)

// BookRepository defines read operations over the shared book catalog.
// The catalog itself is maintained out of band; the API only reads it.
type BookRepository interface {
	// List retrieves one page of the catalog with listing and comment counts.
	List(ctx context.Context, page, perPage int, sort BookSort) ([]*entity.Book, error)

	// FindByID retrieves a single book with its tags and counts.
	FindByID(ctx context.Context, id int64) (*entity.Book, error)

	// FindByISBN retrieves a single book by its ISBN (barcode-scan lookup).
	FindByISBN(ctx context.Context, isbn string) (*entity.Book, error)

	// Search retrieves books whose title matches the full-text query.
	Search(ctx context.Context, query string, page, perPage int) ([]*entity.Book, error)

	// FindByTagID retrieves all books carrying the given tag.
	FindByTagID(ctx context.Context, tagID int64) ([]*entity.Book, error)

	// FindByTagName retrieves all books carrying the named tag.
	FindByTagName(ctx context.Context, name string) ([]*entity.Book, error)
}

// TagRepository defines read operations over catalog tags.
type TagRepository interface {
	// ListAll retrieves every tag.
	ListAll(ctx context.Context) ([]*entity.Tag, error)

	// FindByID retrieves a single tag.
	FindByID(ctx context.Context, id int64) (*entity.Tag, error)

	// FindNamesByBook retrieves the tag names attached to a book.
	FindNamesByBook(ctx context.Context, bookID int64) ([]string, error)
}
