// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"bookmarket/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for listing persistence.
var (
	// ErrPostNotFound is returned when a listing is not found.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment is not found.
	ErrCommentNotFound = errors.New("comment not found")
)

// PostRepository defines the operations for sell-listing persistence.
type PostRepository interface {
	// CreatePost persists a new listing together with its image rows.
	// The post's ID is populated on return.
	CreatePost(ctx context.Context, post *entity.Post) error

	// FindPostByID retrieves a single listing with seller, book and images.
	FindPostByID(ctx context.Context, id int64) (*entity.Post, error)

	// FindPostsByBook retrieves all listings for a book, newest first.
	FindPostsByBook(ctx context.Context, bookID int64) ([]*entity.Post, error)

	// FindPostsBySeller retrieves all listings published by a user, newest first.
	FindPostsBySeller(ctx context.Context, sellerID int64) ([]*entity.Post, error)

	// DeletePost removes a listing and its image rows.
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository defines the operations for book-comment persistence.
type CommentRepository interface {
	// CreateComment persists a new comment. The comment's ID is populated on return.
	CreateComment(ctx context.Context, comment *entity.Comment) error

	// FindCommentByID retrieves a single comment with its author.
	FindCommentByID(ctx context.Context, id int64) (*entity.Comment, error)

	// FindCommentsByBook retrieves one page of a book's comments, newest first.
	FindCommentsByBook(ctx context.Context, bookID int64, page, perPage int) ([]*entity.Comment, error)
}
