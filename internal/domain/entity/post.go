// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Post statuses. A post starts open and is closed by the seller once the
// copy changes hands.
const (
	PostStatusOpen = "open"
	PostStatusSold = "sold"
)

// Post represents a single sell listing: one user offering one copy of a
// catalog book at a price.
type Post struct {
	ID        int64     // The unique ID for this listing.
	BookID    int64     // The catalog book being sold.
	SellerID  int64     // The user selling the copy.
	Content   string    // Seller's free-form description of the copy's condition.
	Price     int       // Asking price in the platform currency's smallest display unit.
	Status    string    // PostStatusOpen or PostStatusSold.
	Images    []string  // URLs of photos of the actual copy.
	CreatedAt time.Time // Timestamp of when the listing was published.

	Seller *User // The seller, populated on reads for display.
	Book   *Book // The catalog book, populated on reads for display.
}

// Comment is a public note a user leaves on a catalog book's page.
type Comment struct {
	ID        int64     // The unique ID for this comment.
	BookID    int64     // The book the comment is attached to.
	AuthorID  int64     // The user who wrote the comment.
	Content   string    // The comment body, trimmed on write.
	CreatedAt time.Time // Timestamp of when the comment was posted.

	Author *User // The author, populated on reads for display.
}
