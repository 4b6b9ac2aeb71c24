// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is a long-running transport (HTTP API server, push worker)
// started by main and stopped through fx lifecycle hooks.
type Delivery interface {
	// Serve blocks, serving requests until the process shuts down.
	Serve(ctx context.Context) error
}
