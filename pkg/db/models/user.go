package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. PasswordHash is empty for
// accounts created through an external identity provider.
type User struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  *string   `gorm:"column:password_hash"`
	GoogleID      *string   `gorm:"column:google_id;uniqueIndex"`
	FirstName     string    `gorm:"column:first_name;not null"`
	LastName      string    `gorm:"column:last_name;not null"`
	IsVendor      bool      `gorm:"column:is_vendor;not null;default:false"`
	IsAdmin       bool      `gorm:"column:is_admin;not null;default:false"`
	EmailVerified bool      `gorm:"column:email_verified;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
