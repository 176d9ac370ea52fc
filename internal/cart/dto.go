package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoploop/shoploop-backend/internal/catalog"
	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// CartItemDTO is the transport shape for a cart line.
type CartItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	LineTotal decimal.Decimal     `json:"line_total"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
}

// CartDTO is the aggregate cart view with computed totals.
type CartDTO struct {
	Items     []*CartItemDTO  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// AddItemDTO is the payload to add a product to the cart.
type AddItemDTO struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// SetQuantityDTO is the payload to change a cart line quantity. Zero or
// less removes the line.
type SetQuantityDTO struct {
	Quantity int `json:"quantity"`
}

func itemFromModel(item *models.CartItem) *CartItemDTO {
	dto := &CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Product:   catalog.ProductFromModel(item.Product),
	}
	if item.Product != nil {
		dto.UnitPrice = item.Product.EffectivePrice()
		dto.LineTotal = dto.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}

func cartFromModels(items []models.CartItem) *CartDTO {
	dto := &CartDTO{
		Items:    make([]*CartItemDTO, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for i := range items {
		line := itemFromModel(&items[i])
		dto.Items = append(dto.Items, line)
		dto.ItemCount += line.Quantity
		dto.Subtotal = dto.Subtotal.Add(line.LineTotal)
	}
	return dto
}
