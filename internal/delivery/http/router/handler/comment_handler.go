package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bookmarket/internal/delivery/http/response"
	"bookmarket/internal/domain/entity"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CommentHandler holds dependencies for book-comment handlers.
type CommentHandler struct {
	comments usecase.CommentUsecase
	logger   *slog.Logger
}

// NewCommentHandler is the constructor for CommentHandler, injected by Fx.
func NewCommentHandler(comments usecase.CommentUsecase, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger,
	}
}

// createCommentRequest represents the request body for commenting on a book.
type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// commentResponse is the public view of a book comment.
type commentResponse struct {
	ID        int64         `json:"id"`
	BookID    int64         `json:"book_id"`
	AuthorID  int64         `json:"author_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Author    *userResponse `json:"author,omitempty"`
}

func newCommentResponse(comment *entity.Comment) *commentResponse {
	if comment == nil {
		return nil
	}

	return &commentResponse{
		ID:        comment.ID,
		BookID:    comment.BookID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    newUserResponse(comment.Author),
	}
}

// ListByBook handles the paged comment listing for a book.
func (h *CommentHandler) ListByBook(c echo.Context) error {
	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	comments, err := h.comments.ListByBook(c.Request().Context(), bookID, pageParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*commentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, newCommentResponse(comment))
	}

	return response.Success(c, http.StatusOK, out, "Comments retrieved successfully")
}

// Get handles the single-comment lookup.
func (h *CommentHandler) Get(c echo.Context) error {
	commentID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid comment ID")
	}

	comment, err := h.comments.Get(c.Request().Context(), commentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newCommentResponse(comment), "Comment retrieved successfully")
}

// Create handles posting a comment on a book as the authenticated user.
func (h *CommentHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	comment, err := h.comments.Create(c.Request().Context(), &usecase.CreateCommentInput{
		AuthorID: userID,
		BookID:   bookID,
		Content:  req.Content,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newCommentResponse(comment), "Comment posted successfully")
}
