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

// tagRepository implements the domain.TagRepository interface using GORM.
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository is the constructor for tagRepository.
func NewTagRepository(db *gorm.DB) repository.TagRepository {
	return &tagRepository{
		db: db,
	}
}

// ListAll retrieves every tag, ordered by name.
func (repo *tagRepository) ListAll(ctx context.Context) ([]*entity.Tag, error) {
	var tagModels []*model.TagModel

	if err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}

	tags := make([]*entity.Tag, 0, len(tagModels))
	for _, tagM := range tagModels {
		tags = append(tags, tagM.ToEntity())
	}

	return tags, nil
}

// FindByID retrieves a single tag.
func (repo *tagRepository) FindByID(ctx context.Context, id int64) (*entity.Tag, error) {
	var tagM model.TagModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tagM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTagNotFound
		}

		return nil, errors.Wrap(err, "failed to find tag by id")
	}

	return tagM.ToEntity(), nil
}

// FindNamesByBook retrieves the tag names attached to a book.
func (repo *tagRepository) FindNamesByBook(ctx context.Context, bookID int64) ([]string, error) {
	var names []string

	if err := repo.db.WithContext(ctx).
		Model(&model.TagModel{}).
		Joins("JOIN book_tags ON book_tags.tag_id = tags.id").
		Where("book_tags.book_id = ?", bookID).
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find tag names by book")
	}

	return names, nil
}
