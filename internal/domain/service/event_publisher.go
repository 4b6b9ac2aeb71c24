package service

import (
	"context"
)

// ListingEvent represents a new sell listing to be processed by the notifier worker.
// It carries everything the worker needs to build the push message without a
// catalog round-trip.
type ListingEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	PostID     int64  `json:"post_id"`
	BookID     int64  `json:"book_id"`
	BookName   string `json:"book_name"`
	Price      int    `json:"price"`
	SellerID   int64  `json:"seller_id"`
	SellerName string `json:"seller_name"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishListingEvent publishes a new-listing event for async processing
	PublishListingEvent(ctx context.Context, event *ListingEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
