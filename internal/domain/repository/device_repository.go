// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"bookmarket/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice is returned when trying to create a device that already exists.
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository defines the interface for device-related database operations.
type DeviceRepository interface {
	// CreateDevice persists a new device for a user.
	CreateDevice(ctx context.Context, device *entity.UserDevice) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id int64) (*entity.UserDevice, error)

	// FindDevicesByUser retrieves all devices for a specific user (including inactive).
	FindDevicesByUser(ctx context.Context, userID int64) ([]*entity.UserDevice, error)

	// FindActiveDevicesByUsers retrieves all active devices for a set of users.
	FindActiveDevicesByUsers(ctx context.Context, userIDs []int64) ([]*entity.UserDevice, error)

	// UpdateFCMToken updates the FCM token for a specific device.
	UpdateFCMToken(ctx context.Context, deviceID int64, fcmToken string) error

	// DeactivateDevice marks a device inactive so it no longer receives pushes.
	DeactivateDevice(ctx context.Context, id int64) error

	// DeactivateByFCMTokens marks every device holding one of the given
	// tokens inactive. Used to prune tokens FCM reports as invalid.
	DeactivateByFCMTokens(ctx context.Context, tokens []string) error
}
