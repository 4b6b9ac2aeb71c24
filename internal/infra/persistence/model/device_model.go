package model

import (
	"time"

	"bookmarket/internal/domain/entity"

	"gorm.io/gorm"
)

// UserDeviceModel mirrors the 'user_devices' table: devices registered for
// push notifications.
type UserDeviceModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"not null;index"`
	FCMToken  string `gorm:"type:varchar(255);not null"`
	DeviceID  string `gorm:"type:varchar(255);not null"`
	Platform  string `gorm:"type:varchar(50);not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (UserDeviceModel) TableName() string {
	return "user_devices"
}

// ToEntity converts the database row to a domain device.
func (m *UserDeviceModel) ToEntity() *entity.UserDevice {
	return &entity.UserDevice{
		ID:        m.ID,
		UserID:    m.UserID,
		FCMToken:  m.FCMToken,
		DeviceID:  m.DeviceID,
		Platform:  m.Platform,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserDeviceModelFromEntity converts a domain device to its database row.
func UserDeviceModelFromEntity(device *entity.UserDevice) *UserDeviceModel {
	return &UserDeviceModel{
		ID:        device.ID,
		UserID:    device.UserID,
		FCMToken:  device.FCMToken,
		DeviceID:  device.DeviceID,
		Platform:  device.Platform,
		IsActive:  device.IsActive,
		CreatedAt: device.CreatedAt,
		UpdatedAt: device.UpdatedAt,
	}
}
