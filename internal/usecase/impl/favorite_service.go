package impl

import (
	"context"

	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
)

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, bookRepo repository.BookRepository) usecase.FavoriteUsecase {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
	}
}

// ListBooks retrieves the books a user follows.
func (srv *favoriteService) ListBooks(ctx context.Context, userID int64) ([]*entity.Book, error) {
	books, err := srv.favoriteRepo.FindBooksByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find favorite books")
	}

	return books, nil
}

// Add records that a user follows a book. Re-adding is a no-op.
func (srv *favoriteService) Add(ctx context.Context, userID, bookID int64) error {
	if _, err := srv.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return domainerrors.ErrBookNotFound.WrapMessage("book not found")
		}

		return errors.Wrap(err, "failed to find book")
	}

	if err := srv.favoriteRepo.AddFavorite(ctx, userID, bookID); err != nil {
		return errors.Wrap(err, "failed to add favorite")
	}

	return nil
}

// Remove stops following a book. Removing a book that was never followed
// succeeds silently.
func (srv *favoriteService) Remove(ctx context.Context, userID, bookID int64) error {
	if err := srv.favoriteRepo.RemoveFavorite(ctx, userID, bookID); err != nil {
		return errors.Wrap(err, "failed to remove favorite")
	}

	return nil
}
