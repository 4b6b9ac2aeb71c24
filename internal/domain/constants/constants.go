// Package constants holds shared domain-level constants.
package constants

// EnvDevelop is the environment name local development configs use.
const EnvDevelop = "develop"

// Pub/Sub provider selectors used in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// EventTypeListingCreated tags new-listing events on the wire.
const EventTypeListingCreated = "listing.created"
