package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/internal/cart"
	"github.com/shoploop/shoploop-backend/internal/orders"
	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// OrderWriter is the order persistence surface checkout needs inside a transaction.
type OrderWriter interface {
	Create(ctx context.Context, order *models.Order) error
	WithTx(tx *gorm.DB) OrderWriter
}

// CartAccess is the cart surface checkout needs: read for pricing, clear on success.
type CartAccess interface {
	ListWithProducts(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	WithTx(tx *gorm.DB) CartAccess
}

type orderWriter struct {
	repo *orders.Repository
}

// NewOrderWriter adapts the orders repository for checkout use.
func NewOrderWriter(repo *orders.Repository) OrderWriter {
	return orderWriter{repo: repo}
}

func (w orderWriter) Create(ctx context.Context, order *models.Order) error {
	return w.repo.Create(ctx, order)
}

func (w orderWriter) WithTx(tx *gorm.DB) OrderWriter {
	return orderWriter{repo: w.repo.WithTx(tx)}
}

type cartAccess struct {
	repo *cart.Repository
}

// NewCartAccess adapts the cart repository for checkout use.
func NewCartAccess(repo *cart.Repository) CartAccess {
	return cartAccess{repo: repo}
}

func (a cartAccess) ListWithProducts(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return a.repo.ListWithProducts(ctx, userID)
}

func (a cartAccess) Clear(ctx context.Context, userID uuid.UUID) error {
	return a.repo.Clear(ctx, userID)
}

func (a cartAccess) WithTx(tx *gorm.DB) CartAccess {
	return cartAccess{repo: a.repo.WithTx(tx)}
}
