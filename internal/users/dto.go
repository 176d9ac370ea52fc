package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	IsVendor      bool      `json:"is_vendor"`
	IsAdmin       bool      `json:"is_admin"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email         string
	PasswordHash  *string
	GoogleID      *string
	FirstName     string
	LastName      string
	EmailVerified bool
}

// UpdateProfileDTO carries the self-service editable fields.
type UpdateProfileDTO struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

// AdminUpdateUserDTO carries the admin-only account flags.
type AdminUpdateUserDTO struct {
	IsVendor      *bool `json:"is_vendor"`
	IsAdmin       *bool `json:"is_admin"`
	EmailVerified *bool `json:"email_verified"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsVendor:      u.IsVendor,
		IsAdmin:       u.IsAdmin,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:         c.Email,
		PasswordHash:  c.PasswordHash,
		GoogleID:      c.GoogleID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		EmailVerified: c.EmailVerified,
	}
}
