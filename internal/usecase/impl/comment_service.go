package impl

import (
	"context"
	"strings"

	"bookmarket/config"
	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// commentService implements the CommentUsecase interface.
type commentService struct {
	commentRepo  repository.CommentRepository
	bookRepo     repository.BookRepository
	itemsPerPage int
}

// CommentServiceParams holds dependencies for CommentService, injected by Fx.
type CommentServiceParams struct {
	fx.In

	CommentRepo repository.CommentRepository
	BookRepo    repository.BookRepository
	Config      *config.Config
}

// NewCommentService is the constructor for commentService.
func NewCommentService(params CommentServiceParams) usecase.CommentUsecase {
	itemsPerPage := 10
	if params.Config != nil && params.Config.Catalog != nil && params.Config.Catalog.ItemsPerPage > 0 {
		itemsPerPage = params.Config.Catalog.ItemsPerPage
	}

	return &commentService{
		commentRepo:  params.CommentRepo,
		bookRepo:     params.BookRepo,
		itemsPerPage: itemsPerPage,
	}
}

// ListByBook retrieves one page of a book's comments, newest first.
func (srv *commentService) ListByBook(ctx context.Context, bookID int64, page int) ([]*entity.Comment, error) {
	if page < 1 {
		page = 1
	}

	comments, err := srv.commentRepo.FindCommentsByBook(ctx, bookID, page, srv.itemsPerPage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find comments by book")
	}

	return comments, nil
}

// Get retrieves a single comment.
func (srv *commentService) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	comment, err := srv.commentRepo.FindCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, domainerrors.ErrCommentNotFound.WrapMessage("comment not found")
		}

		return nil, errors.Wrap(err, "failed to find comment")
	}

	return comment, nil
}

// Create posts a comment on a book. Content is trimmed; empty content is rejected.
func (srv *commentService) Create(ctx context.Context, input *usecase.CreateCommentInput) (*entity.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("comment content must not be empty")
	}

	if _, err := srv.bookRepo.FindByID(ctx, input.BookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("comment references unknown book")
		}

		return nil, errors.Wrap(err, "failed to find book for comment")
	}

	comment := &entity.Comment{
		BookID:   input.BookID,
		AuthorID: input.AuthorID,
		Content:  content,
	}

	if err := srv.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, errors.Wrap(err, "failed to create comment")
	}

	return comment, nil
}
