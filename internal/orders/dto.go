package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// OrderItemDTO is the transport shape for a priced order line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape for an order with its lines.
type OrderDTO struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Total           decimal.Decimal    `json:"total"`
	Status          models.OrderStatus `json:"status"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []*OrderItemDTO    `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// UpdateStatusDTO carries the admin status override payload.
type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// PayOrderDTO carries the card payment capture payload.
type PayOrderDTO struct {
	SourceID string `json:"source_id" validate:"required"`
}

func itemFromModel(item *models.OrderItem) *OrderItemDTO {
	dto := &OrderItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
	}
	return dto
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Total:           o.Total,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		Items:           make([]*OrderItemDTO, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i := range o.Items {
		dto.Items = append(dto.Items, itemFromModel(&o.Items[i]))
	}
	return dto
}

func FromModels(orders []models.Order) []*OrderDTO {
	out := make([]*OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, FromModel(&orders[i]))
	}
	return out
}
