package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog products.
type ProductDTO struct {
	ID             uuid.UUID        `json:"id"`
	VendorID       uuid.UUID        `json:"vendor_id"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	ImageURL       *string          `json:"image_url,omitempty"`
	Stock          int              `json:"stock"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	Rating         decimal.Decimal  `json:"rating"`
	ReviewCount    int              `json:"review_count"`
	Category       *CategoryDTO     `json:"category,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CategoryDTO is the transport shape for catalog categories.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductDTO holds the vendor-supplied fields for a new product.
type CreateProductDTO struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Price       string     `json:"price" validate:"required"`
	SalePrice   *string    `json:"sale_price"`
	CategoryID  *uuid.UUID `json:"category_id"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	Stock       *int       `json:"stock" validate:"omitempty,min=0"`
	IsFeatured  *bool      `json:"is_featured"`
}

// UpdateProductDTO holds the patchable product fields.
type UpdateProductDTO struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Price       *string    `json:"price"`
	SalePrice   *string    `json:"sale_price"`
	ClearSale   bool       `json:"clear_sale"`
	CategoryID  *uuid.UUID `json:"category_id"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	Stock       *int       `json:"stock" validate:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active"`
	IsFeatured  *bool      `json:"is_featured"`
}

// CreateCategoryDTO holds the admin-supplied fields for a new category.
type CreateCategoryDTO struct {
	Name string  `json:"name" validate:"required,max=100"`
	Slug string  `json:"slug" validate:"required,max=100,lowercase"`
	Icon *string `json:"icon" validate:"omitempty,max=100"`
}

// ListProductsQuery captures the supported catalog filters.
type ListProductsQuery struct {
	CategorySlug string
	VendorID     *uuid.UUID
	Search       string
	Limit        int
	Offset       int
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:             p.ID,
		VendorID:       p.VendorID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		EffectivePrice: p.EffectivePrice(),
		ImageURL:       p.ImageURL,
		Stock:          p.Stock,
		IsActive:       p.IsActive,
		IsFeatured:     p.IsFeatured,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Category:       CategoryFromModel(p.Category),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.SalePrice.Valid {
		sale := p.SalePrice.Decimal
		dto.SalePrice = &sale
	}
	return dto
}

func ProductsFromModels(products []models.Product) []*ProductDTO {
	out := make([]*ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, ProductFromModel(&products[i]))
	}
	return out
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
	}
}

func CategoriesFromModels(categories []models.Category) []*CategoryDTO {
	out := make([]*CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, CategoryFromModel(&categories[i]))
	}
	return out
}
