// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"bookmarket/internal/domain/entity"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// bookCountsSelect annotates every catalog row with its listing and comment
// counts so list pages render without N+1 queries.
const bookCountsSelect = "books.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.book_id = books.id AND posts.status = 'open') AS post_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.book_id = books.id) AS comment_count"

// bookRepository implements the domain.BookRepository interface using GORM.
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository is the constructor for bookRepository.
func NewBookRepository(db *gorm.DB) repository.BookRepository {
	return &bookRepository{
		db: db,
	}
}

// List retrieves one page of the catalog ordered by listing or comment activity.
func (repo *bookRepository) List(ctx context.Context, page, perPage int, sort repository.BookSort) ([]*entity.Book, error) {
	order := "post_count DESC, books.id ASC"
	if sort == repository.BookSortByComment {
		order = "comment_count DESC, books.id ASC"
	}

	var bookModels []*model.BookModel
	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	return toBookEntities(bookModels), nil
}

// FindByID retrieves a single book with its tags and counts.
func (repo *bookRepository) FindByID(ctx context.Context, id int64) (*entity.Book, error) {
	var bookM model.BookModel

	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Where("books.id = ?", id).
		First(&bookM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book by id")
	}

	return bookM.ToEntity(), nil
}

// FindByISBN retrieves a single book by its ISBN (barcode-scan lookup).
func (repo *bookRepository) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	var bookM model.BookModel

	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Where("books.isbn = ?", isbn).
		First(&bookM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}

		return nil, errors.Wrap(err, "failed to find book by isbn")
	}

	return bookM.ToEntity(), nil
}

// Search retrieves books whose title matches the query, paged. Matching is
// full-text: every word of the query must appear in the name, in any order,
// so "potter harry" still finds "Harry Potter". The 'simple' configuration
// skips stemming, which would mangle non-English titles.
func (repo *bookRepository) Search(ctx context.Context, query string, page, perPage int) ([]*entity.Book, error) {
	var bookModels []*model.BookModel
	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Where("to_tsvector('simple', books.name) @@ plainto_tsquery('simple', ?)", query).
		Order("post_count DESC, books.id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to search books")
	}

	return toBookEntities(bookModels), nil
}

// FindByTagID retrieves all books carrying the given tag.
func (repo *bookRepository) FindByTagID(ctx context.Context, tagID int64) ([]*entity.Book, error) {
	var bookModels []*model.BookModel
	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Joins("JOIN book_tags ON book_tags.book_id = books.id").
		Where("book_tags.tag_id = ?", tagID).
		Order("post_count DESC, books.id ASC").
		Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find books by tag id")
	}

	return toBookEntities(bookModels), nil
}

// FindByTagName retrieves all books carrying the named tag.
func (repo *bookRepository) FindByTagName(ctx context.Context, name string) ([]*entity.Book, error) {
	var bookModels []*model.BookModel
	if err := repo.db.WithContext(ctx).
		Select(bookCountsSelect).
		Preload("Tags").
		Joins("JOIN book_tags ON book_tags.book_id = books.id").
		Joins("JOIN tags ON tags.id = book_tags.tag_id").
		Where("tags.name = ?", name).
		Order("post_count DESC, books.id ASC").
		Find(&bookModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find books by tag name")
	}

	return toBookEntities(bookModels), nil
}

func toBookEntities(bookModels []*model.BookModel) []*entity.Book {
	books := make([]*entity.Book, 0, len(bookModels))
	for _, bookM := range bookModels {
		books = append(books, bookM.ToEntity())
	}

	return books
}
