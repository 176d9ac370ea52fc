package addresses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
)

type addressStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	CreateDefault(ctx context.Context, address *models.Address) error
	Save(ctx context.Context, address *models.Address) error
	SaveDefault(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Service defines address book operations for the authenticated user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]*AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateAddressDTO) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressDTO) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	OwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

type service struct {
	repo addressStore
}

// NewService builds an addresses service with the required dependencies.
func NewService(repo addressStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addresses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return FromModels(addresses), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateAddressDTO) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	address := &models.Address{
		UserID:    userID,
		Street:    strings.TrimSpace(input.Street),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		Zip:       strings.TrimSpace(input.Zip),
		Country:   strings.TrimSpace(input.Country),
		IsDefault: input.IsDefault,
	}

	// First saved address becomes the default regardless of the flag.
	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}

	if address.IsDefault {
		err = s.repo.CreateDefault(ctx, address)
	} else {
		err = s.repo.Create(ctx, address)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return FromModel(address), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressDTO) (*AddressDTO, error) {
	address, err := s.OwnedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Street != nil {
		address.Street = strings.TrimSpace(*input.Street)
	}
	if input.City != nil {
		address.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		address.State = strings.TrimSpace(*input.State)
	}
	if input.Zip != nil {
		address.Zip = strings.TrimSpace(*input.Zip)
	}
	if input.Country != nil {
		address.Country = strings.TrimSpace(*input.Country)
	}

	promote := input.IsDefault != nil && *input.IsDefault && !address.IsDefault
	if input.IsDefault != nil {
		address.IsDefault = *input.IsDefault
	}

	if promote {
		err = s.repo.SaveDefault(ctx, address)
	} else {
		err = s.repo.Save(ctx, address)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return FromModel(address), nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if err := s.repo.Delete(ctx, userID, addressID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// OwnedAddress loads an address and verifies it belongs to the user.
func (s *service) OwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")
	}
	return address, nil
}
