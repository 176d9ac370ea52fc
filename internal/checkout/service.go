package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/internal/addresses"
	"github.com/shoploop/shoploop-backend/internal/orders"
	"github.com/shoploop/shoploop-backend/pkg/config"
	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/payments"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressVerifier interface {
	OwnedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

// Input is the checkout request after transport decoding.
type Input struct {
	AddressID     uuid.UUID `json:"address_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required"`
	ExpectedTotal *string   `json:"expected_total"`
}

// Result bundles the created order and the payment hand-off.
type Result struct {
	Order   *orders.OrderDTO `json:"order"`
	Payment payments.Handoff `json:"payment"`
}

// Service turns a cart into an order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type service struct {
	cart        CartAccess
	orderWriter OrderWriter
	addresses   addressVerifier
	tx          txRunner
	paymentsCfg config.PaymentsConfig
}

// NewService builds the checkout service with the required dependencies.
func NewService(cartRepo CartAccess, orderWriter OrderWriter, addressSvc addressVerifier, tx txRunner, paymentsCfg config.PaymentsConfig) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if orderWriter == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if addressSvc == nil {
		return nil, fmt.Errorf("address verifier required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		cart:        cartRepo,
		orderWriter: orderWriter,
		addresses:   addressSvc,
		tx:          tx,
		paymentsCfg: paymentsCfg,
	}, nil
}

// Execute re-prices the cart from the catalog, snapshots the order, clears the
// cart, and hands off payment. Client-supplied prices are never trusted; when
// an expected total is provided it must match the server-computed amount.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	method, err := payments.ParseMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_method must be card, hosted_redirect, or bank_transfer")
	}

	address, err := s.addresses.OwnedAddress(ctx, userID, input.AddressID)
	if err != nil {
		return nil, err
	}

	items, err := s.cart.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines, total, err := priceCart(items)
	if err != nil {
		return nil, err
	}

	if input.ExpectedTotal != nil {
		expected, convErr := decimal.NewFromString(strings.TrimSpace(*input.ExpectedTotal))
		if convErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected_total must be a decimal amount")
		}
		if !expected.Equal(total) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("cart total changed: expected %s, current %s", expected.StringFixed(2), total.StringFixed(2)))
		}
	}

	order := &models.Order{
		UserID:          userID,
		Total:           total,
		Status:          models.OrderStatusPending,
		ShippingAddress: addresses.Snapshot(address),
		Items:           lines,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orderWriter.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.cart.WithTx(tx).Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	handoff, err := payments.HandoffFor(method, order.ID, s.paymentsCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build payment handoff")
	}

	return &Result{
		Order:   orders.FromModel(order),
		Payment: handoff,
	}, nil
}

// priceCart converts cart lines to order lines at current catalog prices.
func priceCart(items []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	lines := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero

	for i := range items {
		item := &items[i]
		if item.Quantity < 1 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cart contains an invalid quantity")
		}
		if item.Product == nil {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a missing product")
		}
		if !item.Product.IsActive {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("product %q is no longer available", item.Product.Name))
		}

		unit := item.Product.EffectivePrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		lines = append(lines, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     unit,
		})
	}
	return lines, total, nil
}
