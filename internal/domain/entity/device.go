// Package entity contains the core business objects of the project.
package entity

import (
	"time"
)

// UserDevice represents a user's device registered for push notifications.
type UserDevice struct {
	ID        int64     // The unique ID for this device record.
	UserID    int64     // The ID of the user who owns this device.
	FCMToken  string    // Firebase Cloud Messaging token for push notifications.
	DeviceID  string    // Unique device identifier from the client.
	Platform  string    // Device platform (ios, android).
	IsActive  bool      // Indicates if this device is active for notifications.
	CreatedAt time.Time // Timestamp of when this device was registered.
	UpdatedAt time.Time // Timestamp of the last modification.
}
