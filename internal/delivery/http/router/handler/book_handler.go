package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookmarket/internal/delivery/http/response"
	"bookmarket/internal/domain/entity"
	"bookmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BookHandler holds dependencies for catalog browsing handlers.
type BookHandler struct {
	catalog usecase.CatalogUsecase
	logger  *slog.Logger
}

// NewBookHandler is the constructor for BookHandler, injected by Fx.
func NewBookHandler(catalog usecase.CatalogUsecase, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// bookResponse is the public view of a catalog book.
type bookResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Author       string    `json:"author,omitempty"`
	ISBN         string    `json:"isbn,omitempty"`
	Cover        string    `json:"cover,omitempty"`
	Description  string    `json:"description,omitempty"`
	PostCount    int64     `json:"post_count"`
	CommentCount int64     `json:"comment_count"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func newBookResponse(book *entity.Book) *bookResponse {
	if book == nil {
		return nil
	}

	return &bookResponse{
		ID:           book.ID,
		Name:         book.Name,
		Author:       book.Author,
		ISBN:         book.ISBN,
		Cover:        book.Cover,
		Description:  book.Description,
		PostCount:    book.PostCount,
		CommentCount: book.CommentCount,
		Tags:         book.Tags,
		CreatedAt:    book.CreatedAt,
	}
}

func newBookResponses(books []*entity.Book) []*bookResponse {
	out := make([]*bookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, newBookResponse(book))
	}

	return out
}

// tagResponse is the public view of a catalog tag.
type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListBooks handles the paged catalog listing. Sort accepts "sale" or "comment".
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.catalog.ListBooks(c.Request().Context(), pageParam(c), c.QueryParam("sort"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponses(books), "Books retrieved successfully")
}

// GetBook handles the single-book lookup.
func (h *BookHandler) GetBook(c echo.Context) error {
	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	book, err := h.catalog.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponse(book), "Book retrieved successfully")
}

// GetBookByISBN handles the barcode-scan lookup from the mobile client.
func (h *BookHandler) GetBookByISBN(c echo.Context) error {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		return response.BadRequest(c, "INVALID_ISBN", "ISBN is required")
	}

	book, err := h.catalog.GetBookByISBN(c.Request().Context(), isbn)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponse(book), "Book retrieved successfully")
}

// SearchBooks handles the title search, e.g. GET /search?q=golang&page=2.
func (h *BookHandler) SearchBooks(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return response.BadRequest(c, "INVALID_QUERY", "Search query is required")
	}

	books, err := h.catalog.SearchBooks(c.Request().Context(), query, pageParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponses(books), "Books retrieved successfully")
}

// ListTags handles the tag listing.
func (h *BookHandler) ListTags(c echo.Context) error {
	tags, err := h.catalog.ListTags(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*tagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, &tagResponse{ID: tag.ID, Name: tag.Name})
	}

	return response.Success(c, http.StatusOK, out, "Tags retrieved successfully")
}

// GetTagBooks handles the books-by-tag lookup.
func (h *BookHandler) GetTagBooks(c echo.Context) error {
	tagID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid tag ID")
	}

	output, err := h.catalog.GetTagBooks(c.Request().Context(), tagID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"tag":   &tagResponse{ID: output.Tag.ID, Name: output.Tag.Name},
		"books": newBookResponses(output.Books),
	}, "Tag books retrieved successfully")
}

// GetTagBooksByName handles the books-by-tag-name lookup,
// e.g. GET /tag-name?tag=programming.
func (h *BookHandler) GetTagBooksByName(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("tag"))
	if name == "" {
		return response.BadRequest(c, "INVALID_TAG", "Tag name is required")
	}

	books, err := h.catalog.GetTagBooksByName(c.Request().Context(), name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBookResponses(books), "Tag books retrieved successfully")
}

// GetBookTags handles the tag-names-of-a-book lookup.
func (h *BookHandler) GetBookTags(c echo.Context) error {
	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	tags, err := h.catalog.GetBookTags(c.Request().Context(), bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tags, "Book tags retrieved successfully")
}

// ShareQR renders a PNG QR code encoding the book's share link.
func (h *BookHandler) ShareQR(c echo.Context) error {
	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	png, err := h.catalog.BookShareQR(c.Request().Context(), bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
