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
)

// postRepository implements the domain.PostRepository interface using GORM.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{
		db: db,
	}
}

// CreatePost persists a new listing together with its image rows.
// GORM creates the posts row and its post_images children in one statement
// batch; run it under txManager.Execute when atomicity with other writes matters.
func (repo *postRepository) CreatePost(ctx context.Context, post *entity.Post) error {
	postM := &model.PostModel{
		BookID:   post.BookID,
		SellerID: post.SellerID,
		Content:  post.Content,
		Price:    post.Price,
		Status:   post.Status,
	}
	for _, url := range post.Images {
		postM.Images = append(postM.Images, model.PostImageModel{URL: url})
	}

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrBookNotFound.WrapMessage("listing references unknown book")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required listing information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt

	return nil
}

// FindPostByID retrieves a single listing with seller, book and images.
func (repo *postRepository) FindPostByID(ctx context.Context, id int64) (*entity.Post, error) {
	var postM model.PostModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Preload("Seller").
		Preload("Book").
		Where("id = ?", id).
		First(&postM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post by id")
	}

	return postM.ToEntity(), nil
}

// FindPostsByBook retrieves all listings for a book, newest first.
func (repo *postRepository) FindPostsByBook(ctx context.Context, bookID int64) ([]*entity.Post, error) {
	var postModels []*model.PostModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Preload("Seller").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find posts by book")
	}

	return toPostEntities(postModels), nil
}

// FindPostsBySeller retrieves all listings published by a user, newest first.
func (repo *postRepository) FindPostsBySeller(ctx context.Context, sellerID int64) ([]*entity.Post, error) {
	var postModels []*model.PostModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Preload("Book").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find posts by seller")
	}

	return toPostEntities(postModels), nil
}

// DeletePost removes a listing and its image rows.
func (repo *postRepository) DeletePost(ctx context.Context, id int64) error {
	if err := repo.db.WithContext(ctx).
		Where("post_id = ?", id).
		Delete(&model.PostImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete post images")
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PostModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

func toPostEntities(postModels []*model.PostModel) []*entity.Post {
	posts := make([]*entity.Post, 0, len(postModels))
	for _, postM := range postModels {
		posts = append(posts, postM.ToEntity())
	}

	return posts
}
