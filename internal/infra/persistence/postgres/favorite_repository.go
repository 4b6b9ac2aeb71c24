// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// favoriteRepository implements the domain.FavoriteRepository interface using GORM.
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository is the constructor for favoriteRepository.
func NewFavoriteRepository(db *gorm.DB) repository.FavoriteRepository {
	return &favoriteRepository{
		db: db,
	}
}

// FindBooksByUser retrieves the books a user follows, with counts.
func (repo *favoriteRepository) FindBooksByUser(ctx context.Context, userID int64) ([]*entity.Book, error) {
	var bookModels []*model.BookModel

	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Joins("JOIN favorites ON favorites.book_id = books.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find favorite books by user")
	}

	return toBookEntities(bookModels), nil
}

// AddFavorite records that a user follows a book. ON CONFLICT DO NOTHING
// makes repeated follows idempotent.
func (repo *favoriteRepository) AddFavorite(ctx context.Context, userID, bookID int64) error {
	favoriteM := &model.FavoriteModel{
		UserID: userID,
		BookID: bookID,
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favoriteM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrBookNotFound.WrapMessage("favorite references unknown book")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add favorite")
	}

	return nil
}

// RemoveFavorite removes a book from a user's followed list.
// Removing a favorite that does not exist is a no-op.
func (repo *favoriteRepository) RemoveFavorite(ctx context.Context, userID, bookID int64) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&model.FavoriteModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to remove favorite")
	}

	return nil
}

// FindUserIDsByBook retrieves the IDs of every user following a book.
func (repo *favoriteRepository) FindUserIDsByBook(ctx context.Context, bookID int64) ([]int64, error) {
	var userIDs []int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FavoriteModel{}).
		Where("book_id = ?", bookID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find user ids by book")
	}

	return userIDs, nil
}
