package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db"
	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
)

type catalogStore interface {
	ListProducts(ctx context.Context, query ListProductsQuery) ([]models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

// Service defines catalog read and vendor write operations.
type Service interface {
	ListProducts(ctx context.Context, query ListProductsQuery) ([]*ProductDTO, error)
	FeaturedProducts(ctx context.Context) ([]*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	VendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*ProductDTO, error)
	CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID, input UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID) error
	ListCategories(ctx context.Context) ([]*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryDTO) (*CategoryDTO, error)
}

type service struct {
	repo catalogStore
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo catalogStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, query ListProductsQuery) ([]*ProductDTO, error) {
	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		if _, err := s.repo.FindCategoryBySlug(ctx, slug); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}
	products, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return ProductsFromModels(products), nil
}

func (s *service) FeaturedProducts(ctx context.Context) ([]*ProductDTO, error) {
	products, err := s.repo.FeaturedProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return ProductsFromModels(products), nil
}

// GetProduct returns the product even when deactivated so order history
// keeps resolving line items.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return ProductFromModel(product), nil
}

func (s *service) VendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	products, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor products")
	}
	return ProductsFromModels(products), nil
}

func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductDTO) (*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	price, err := parsePrice(input.Price, "price")
	if err != nil {
		return nil, err
	}
	salePrice, err := parseOptionalSalePrice(input.SalePrice, price)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:    vendorID,
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		SalePrice:   salePrice,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ProductFromModel(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID, input UpdateProductDTO) (*ProductDTO, error) {
	product, err := s.authorizeProductWrite(ctx, actorID, isAdmin, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	newPrice := product.Price
	if input.Price != nil {
		price, err := parsePrice(*input.Price, "price")
		if err != nil {
			return nil, err
		}
		newPrice = price
		updates["price"] = price
	}
	if input.ClearSale {
		updates["sale_price"] = nil
	} else if input.SalePrice != nil {
		sale, err := parsePrice(*input.SalePrice, "sale_price")
		if err != nil {
			return nil, err
		}
		if sale.GreaterThan(newPrice) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_price cannot exceed price")
		}
		updates["sale_price"] = sale
	} else if input.Price != nil && product.SalePrice.Valid && product.SalePrice.Decimal.GreaterThan(newPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_price cannot exceed price")
	}

	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product fields provided")
	}

	if err := s.repo.UpdateProduct(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	updated, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ProductFromModel(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID) error {
	if _, err := s.authorizeProductWrite(ctx, actorID, isAdmin, productID); err != nil {
		return err
	}
	if err := s.repo.DeactivateProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]*CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return CategoriesFromModels(categories), nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryDTO) (*CategoryDTO, error) {
	category := &models.Category{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.ToLower(strings.TrimSpace(input.Slug)),
		Icon: input.Icon,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "idx_categories_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) authorizeProductWrite(ctx context.Context, actorID uuid.UUID, isAdmin bool, productID uuid.UUID) (*models.Product, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && product.VendorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to vendor")
	}
	return product, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a decimal amount", field))
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s cannot be negative", field))
	}
	if price.Exponent() < -2 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s cannot have more than two decimal places", field))
	}
	return price, nil
}

func parseOptionalSalePrice(raw *string, price decimal.Decimal) (decimal.NullDecimal, error) {
	if raw == nil {
		return decimal.NullDecimal{}, nil
	}
	sale, err := parsePrice(*raw, "sale_price")
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if sale.GreaterThan(price) {
		return decimal.NullDecimal{}, pkgerrors.New(pkgerrors.CodeValidation, "sale_price cannot exceed price")
	}
	return decimal.NullDecimal{Decimal: sale, Valid: true}, nil
}
