// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"bookmarket/internal/domain/entity"
)

// FavoriteRepository defines the operations for a user's followed books.
type FavoriteRepository interface {
	// FindBooksByUser retrieves the books a user follows, with counts.
	FindBooksByUser(ctx context.Context, userID int64) ([]*entity.Book, error)

	// AddFavorite records that a user follows a book. Adding an existing
	// favorite is a no-op, not an error.
	AddFavorite(ctx context.Context, userID, bookID int64) error

	// RemoveFavorite removes a book from a user's followed list.
	RemoveFavorite(ctx context.Context, userID, bookID int64) error

	// FindUserIDsByBook retrieves the IDs of every user following a book.
	// Used by the notifier to fan a new listing out to interested users.
	FindUserIDsByBook(ctx context.Context, bookID int64) ([]int64, error)
}
