package usecase

import (
	"context"

	"bookmarket/internal/domain/service"
)

// NotifyResult summarizes one fan-out of a listing event.
type NotifyResult struct {
	Recipients   int // Users following the book (seller excluded).
	TokensSent   int // Device tokens a push was attempted for.
	Delivered    int // Pushes FCM accepted.
	Failed       int // Pushes FCM rejected.
	TokensPruned int // Invalid tokens deactivated afterwards.
}

// NotifierUsecase defines the worker-side processing of listing events.
type NotifierUsecase interface {
	// NotifyNewListing pushes a new-listing notification to every active
	// device of every user following the listed book, and prunes device
	// tokens FCM reports as invalid.
	NotifyNewListing(ctx context.Context, event *service.ListingEvent) (*NotifyResult, error)
}
