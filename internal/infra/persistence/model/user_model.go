// Package model holds the GORM-specific structs mirroring the PostgreSQL schema.
package model

import (
	"time"

	"bookmarket/internal/domain/entity"
)

// UserModel mirrors the 'users' table. A single row may carry a local
// credential, a federated identity, or both; the absent columns stay NULL so
// the unique indexes never collide on empty strings.
type UserModel struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Name           string  `gorm:"type:varchar(100);not null"`
	Email          *string `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash   *string `gorm:"type:varchar(255)"`
	Provider       *string `gorm:"type:varchar(50);uniqueIndex:idx_users_provider_provider_user_id"`
	ProviderUserID *string `gorm:"type:varchar(255);uniqueIndex:idx_users_provider_provider_user_id"`
	Avatar         *string `gorm:"type:varchar(512)"`
	Location       *string `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the database row to a domain user. NULL columns become
// empty strings; the entity treats "" as absent.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          derefString(m.Email),
		PasswordHash:   derefString(m.PasswordHash),
		Provider:       derefString(m.Provider),
		ProviderUserID: derefString(m.ProviderUserID),
		Avatar:         derefString(m.Avatar),
		Location:       derefString(m.Location),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain user to its database row.
// Empty strings map to NULL so unique indexes only bind populated values.
func UserModelFromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:             user.ID,
		Name:           user.Name,
		Email:          nilIfEmpty(user.Email),
		PasswordHash:   nilIfEmpty(user.PasswordHash),
		Provider:       nilIfEmpty(user.Provider),
		ProviderUserID: nilIfEmpty(user.ProviderUserID),
		Avatar:         nilIfEmpty(user.Avatar),
		Location:       nilIfEmpty(user.Location),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
