package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents the canonical vendor listing. Prices are stored as
// numeric(10,2); a present SalePrice overrides Price at checkout.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	CategoryID  *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	SalePrice   decimal.NullDecimal `gorm:"column:sale_price;type:numeric(10,2)"`
	ImageURL    *string             `gorm:"column:image_url"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool                `gorm:"column:is_featured;not null;default:false"`
	Rating      decimal.Decimal     `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount int                 `gorm:"column:review_count;not null;default:0"`
	Category    *Category           `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the sale price when set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}
