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

// commentRepository implements the domain.CommentRepository interface using GORM.
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository is the constructor for commentRepository.
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepository{
		db: db,
	}
}

// CreateComment persists a new comment.
func (repo *commentRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		BookID:   comment.BookID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrBookNotFound.WrapMessage("comment references unknown book")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required comment information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// FindCommentByID retrieves a single comment with its author.
func (repo *commentRepository) FindCommentByID(ctx context.Context, id int64) (*entity.Comment, error) {
	var commentM model.CommentModel

	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&commentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}

		return nil, errors.Wrap(err, "failed to find comment by id")
	}

	return commentM.ToEntity(), nil
}

// FindCommentsByBook retrieves one page of a book's comments, newest first.
func (repo *commentRepository) FindCommentsByBook(ctx context.Context, bookID int64, page, perPage int) ([]*entity.Comment, error) {
	var commentModels []*model.CommentModel

	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&commentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find comments by book")
	}

	comments := make([]*entity.Comment, 0, len(commentModels))
	for _, commentM := range commentModels {
		comments = append(comments, commentM.ToEntity())
	}

	return comments, nil
}
