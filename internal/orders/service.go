package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/payments"
)

type orderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	VendorSellsInOrder(ctx context.Context, orderID, vendorID uuid.UUID) (bool, error)
}

var decimalHundred = decimal.NewFromInt(100)

// Viewer identifies who is asking for an order and with what privileges.
type Viewer struct {
	UserID   uuid.UUID
	IsVendor bool
	IsAdmin  bool
}

// Service defines order reads, the admin status override, and card capture.
type Service interface {
	GetOrder(ctx context.Context, viewer Viewer, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*OrderDTO, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]*OrderDTO, error)
	AdminList(ctx context.Context, limit, offset int) ([]*OrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusDTO) (*OrderDTO, error)
	Pay(ctx context.Context, userID, orderID uuid.UUID, input PayOrderDTO) (*OrderDTO, error)
}

type service struct {
	repo    orderStore
	charger payments.CardCharger
}

// NewService builds an orders service with the required dependencies.
// The card charger may be nil when Square is not configured; Pay then fails
// with a dependency error.
func NewService(repo orderStore, charger payments.CardCharger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, charger: charger}, nil
}

func (s *service) GetOrder(ctx context.Context, viewer Viewer, orderID uuid.UUID) (*OrderDTO, error) {
	if viewer.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID == viewer.UserID || viewer.IsAdmin {
		return FromModel(order), nil
	}
	if viewer.IsVendor {
		sells, err := s.repo.VendorSellsInOrder(ctx, orderID, viewer.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor order access")
		}
		if sells {
			return FromModel(order), nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]*OrderDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}
	return FromModels(orders), nil
}

func (s *service) AdminList(ctx context.Context, limit, offset int) ([]*OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all orders")
	}
	return FromModels(orders), nil
}

func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusDTO) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) Pay(ctx context.Context, userID, orderID uuid.UUID, input PayOrderDTO) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.SourceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source_id required")
	}
	if s.charger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "card payments are not configured")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	if order.Status != models.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	// numeric(10,2) totals convert exactly to cents.
	cents := order.Total.Mul(decimalHundred).IntPart()
	_, err = s.charger.ChargeCard(ctx, payments.PaymentCreateParams{
		AmountCents: cents,
		Currency:    s.charger.Currency(),
		LocationID:  s.charger.LocationID(),
		SourceID:    input.SourceID,
		ReferenceID: order.ID.String(),
		Note:        fmt.Sprintf("order %s", order.ID),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order processing")
	}
	order.Status = models.OrderStatusProcessing
	return FromModel(order), nil
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
