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

// PostHandler holds dependencies for sell-listing handlers.
type PostHandler struct {
	listing usecase.ListingUsecase
	logger  *slog.Logger
}

// NewPostHandler is the constructor for PostHandler, injected by Fx.
func NewPostHandler(listing usecase.ListingUsecase, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		listing: listing,
		logger:  logger,
	}
}

// createPostRequest represents the request body for publishing a listing.
type createPostRequest struct {
	BookID  int64    `json:"book_id" validate:"required,gt=0"`
	Content string   `json:"content"`
	Price   int      `json:"price" validate:"gte=0"`
	Images  []string `json:"images" validate:"dive,url"`
}

// postResponse is the public view of a sell listing.
type postResponse struct {
	ID        int64         `json:"id"`
	BookID    int64         `json:"book_id"`
	SellerID  int64         `json:"seller_id"`
	Content   string        `json:"content"`
	Price     int           `json:"price"`
	Status    string        `json:"status"`
	Images    []string      `json:"images,omitempty"`
	IsOwner   bool          `json:"is_owner"`
	CreatedAt time.Time     `json:"created_at"`
	Seller    *userResponse `json:"seller,omitempty"`
	Book      *bookResponse `json:"book,omitempty"`
}

// newPostResponse renders a listing for the given viewer; viewerID 0 means
// an anonymous read and is_owner stays false.
func newPostResponse(post *entity.Post, viewerID int64) *postResponse {
	if post == nil {
		return nil
	}

	return &postResponse{
		ID:        post.ID,
		BookID:    post.BookID,
		SellerID:  post.SellerID,
		Content:   post.Content,
		Price:     post.Price,
		Status:    post.Status,
		Images:    post.Images,
		IsOwner:   viewerID != 0 && post.SellerID == viewerID,
		CreatedAt: post.CreatedAt,
		Seller:    newUserResponse(post.Seller),
		Book:      newBookResponse(post.Book),
	}
}

func newPostResponses(posts []*entity.Post, viewerID int64) []*postResponse {
	out := make([]*postResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, newPostResponse(post, viewerID))
	}

	return out
}

// Create handles publishing a new listing for the authenticated seller.
func (h *PostHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	post, err := h.listing.Create(c.Request().Context(), &usecase.CreatePostInput{
		SellerID: userID,
		BookID:   req.BookID,
		Content:  req.Content,
		Price:    req.Price,
		Images:   req.Images,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newPostResponse(post, userID), "Listing published successfully")
}

// Delete handles removing the authenticated seller's own listing.
func (h *PostHandler) Delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	postID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid post ID")
	}

	if err := h.listing.Delete(c.Request().Context(), userID, postID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Listing deleted successfully"}, "Listing deleted successfully")
}

// ListByBook handles listing all posts for a catalog book. The viewer is
// authenticated so each row carries an is_owner flag.
func (h *PostHandler) ListByBook(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	bookID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	posts, err := h.listing.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponses(posts, userID), "Listings retrieved successfully")
}

// ListBySeller handles listing all posts published by a user.
func (h *PostHandler) ListBySeller(c echo.Context) error {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	posts, err := h.listing.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponses(posts, 0), "Listings retrieved successfully")
}

// ListOwn handles listing the authenticated user's own posts.
func (h *PostHandler) ListOwn(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "TOKEN_INVALID", "Invalid user ID in token")
	}

	posts, err := h.listing.ListBySeller(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponses(posts, userID), "Listings retrieved successfully")
}
