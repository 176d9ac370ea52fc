package addresses

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// AddressDTO is the transport shape for a saved address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAddressDTO holds the fields required to save an address.
type CreateAddressDTO struct {
	Street    string `json:"street" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	Zip       string `json:"zip" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

// UpdateAddressDTO carries a partial edit. Nil fields are left untouched.
type UpdateAddressDTO struct {
	Street    *string `json:"street" validate:"omitempty,max=200"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	Zip       *string `json:"zip" validate:"omitempty,max=20"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
	IsDefault *bool   `json:"is_default"`
}

func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:        a.ID,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Country:   a.Country,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}

func FromModels(addresses []models.Address) []*AddressDTO {
	out := make([]*AddressDTO, 0, len(addresses))
	for i := range addresses {
		out = append(out, FromModel(&addresses[i]))
	}
	return out
}

// Snapshot renders the single-line form frozen onto orders at checkout.
func Snapshot(a *models.Address) string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.Zip, a.Country)
}
