// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Book represents a title in the shared catalog. Books are reference data:
// sellers attach listings to an existing book rather than describing their
// copy from scratch.
type Book struct {
	ID           int64     // The unique ID for this book.
	Name         string    // The book's title.
	Author       string    // The book's author(s).
	ISBN         string    // The ISBN used for barcode-scan lookup in the mobile client.
	Cover        string    // URL of the cover image.
	Description  string    // Publisher's description.
	PostCount    int64     // Number of active listings for this book.
	CommentCount int64     // Number of comments left on this book.
	Tags         []string  // Names of the tags attached to this book.
	CreatedAt    time.Time // Timestamp of when this book entered the catalog.
}

// Tag is a catalog category a book can belong to.
type Tag struct {
	ID   int64  // The unique ID for this tag.
	Name string // The tag's display name.
}
