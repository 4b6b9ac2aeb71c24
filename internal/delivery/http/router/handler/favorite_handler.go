package handler

import (
	"log/slog"
	"net/http"

	"bookmarket/internal/delivery/http/response"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FavoriteHandler holds dependencies for followed-book handlers.
type FavoriteHandler struct {
	favorites usecase.FavoriteUsecase
	logger    *slog.Logger
}

// NewFavoriteHandler is the constructor for FavoriteHandler, injected by Fx.
func NewFavoriteHandler(favorites usecase.FavoriteUsecase, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    logger,
	}
}

// ListBooks handles listing the books the authenticated user follows.
func (h *FavoriteHandler) ListBooks(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	books, err := h.favorites.ListBooks(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponses(books), "Favorites retrieved successfully")
}

// Add handles following a book. Following twice is a no-op.
func (h *FavoriteHandler) Add(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	bookID, ok := pathID(c, "bookID")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	if err := h.favorites.Add(c.Request().Context(), userID, bookID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": "Book followed successfully"}, "Book followed successfully")
}

// Remove handles unfollowing a book.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	bookID, ok := pathID(c, "bookID")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	if err := h.favorites.Remove(c.Request().Context(), userID, bookID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Book unfollowed successfully"}, "Book unfollowed successfully")
}
