package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
)

type stubCatalogStore struct {
	products    map[uuid.UUID]*models.Product
	categories  []models.Category
	updates     map[string]any
	deactivated []uuid.UUID
}

func newStubCatalogStore(products ...*models.Product) *stubCatalogStore {
	s := &stubCatalogStore{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubCatalogStore) ListProducts(_ context.Context, _ ListProductsQuery) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubCatalogStore) FeaturedProducts(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.IsActive && p.IsFeatured {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubCatalogStore) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubCatalogStore) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.VendorID == vendorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubCatalogStore) CreateProduct(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubCatalogStore) UpdateProduct(_ context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	p := s.products[id]
	if v, ok := updates["name"].(string); ok {
		p.Name = v
	}
	if v, ok := updates["price"].(decimal.Decimal); ok {
		p.Price = v
	}
	if v, ok := updates["sale_price"]; ok {
		if v == nil {
			p.SalePrice = decimal.NullDecimal{}
		} else if d, ok := v.(decimal.Decimal); ok {
			p.SalePrice = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	if v, ok := updates["is_active"].(bool); ok {
		p.IsActive = v
	}
	return nil
}

func (s *stubCatalogStore) DeactivateProduct(_ context.Context, id uuid.UUID) error {
	s.deactivated = append(s.deactivated, id)
	s.products[id].IsActive = false
	return nil
}

func (s *stubCatalogStore) ListCategories(_ context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubCatalogStore) FindCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range s.categories {
		if s.categories[i].Slug == slug {
			copied := s.categories[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogStore) CreateCategory(_ context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories = append(s.categories, *category)
	return nil
}

func price(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return d
}

func TestCreateProductParsesPrices(t *testing.T) {
	store := newStubCatalogStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	vendorID := uuid.New()
	sale := "7.50"

	dto, err := svc.CreateProduct(context.Background(), vendorID, CreateProductDTO{
		Name:      "Wool Scarf",
		Price:     "19.99",
		SalePrice: &sale,
	})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if !dto.Price.Equal(price(t, "19.99")) {
		t.Fatalf("price = %s", dto.Price)
	}
	if dto.SalePrice == nil || !dto.SalePrice.Equal(price(t, "7.50")) {
		t.Fatalf("sale price = %v", dto.SalePrice)
	}
	if !dto.EffectivePrice.Equal(price(t, "7.50")) {
		t.Fatalf("effective price = %s", dto.EffectivePrice)
	}
	if !dto.IsActive {
		t.Fatal("new products should start active")
	}
}

func TestCreateProductRejectsSaleAbovePrice(t *testing.T) {
	svc, _ := NewService(newStubCatalogStore())
	sale := "25.00"
	_, err := svc.CreateProduct(context.Background(), uuid.New(), CreateProductDTO{
		Name:      "Scarf",
		Price:     "19.99",
		SalePrice: &sale,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc, _ := NewService(newStubCatalogStore())
	cases := []string{"abc", "-5.00", "1.999"}
	for _, raw := range cases {
		_, err := svc.CreateProduct(context.Background(), uuid.New(), CreateProductDTO{Name: "X", Price: raw})
		if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("price %q: expected VALIDATION_ERROR, got %v", raw, err)
		}
	}
}

func TestListProductsUnknownCategorySlug(t *testing.T) {
	store := newStubCatalogStore()
	store.categories = []models.Category{{ID: uuid.New(), Name: "Apparel", Slug: "apparel"}}
	svc, _ := NewService(store)

	if _, err := svc.ListProducts(context.Background(), ListProductsQuery{CategorySlug: "apparel"}); err != nil {
		t.Fatalf("ListProducts returned error for known slug: %v", err)
	}
	if _, err := svc.ListProducts(context.Background(), ListProductsQuery{CategorySlug: "nope"}); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetProductKeepsInactiveFetchable(t *testing.T) {
	product := &models.Product{ID: uuid.New(), VendorID: uuid.New(), Name: "Retired", Price: price(t, "5.00"), IsActive: false}
	svc, _ := NewService(newStubCatalogStore(product))

	dto, err := svc.GetProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if dto.IsActive {
		t.Fatal("product should still report inactive")
	}
}

func TestGetProductUnknownID(t *testing.T) {
	svc, _ := NewService(newStubCatalogStore())
	if _, err := svc.GetProduct(context.Background(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateProductForbiddenForOtherVendor(t *testing.T) {
	product := &models.Product{ID: uuid.New(), VendorID: uuid.New(), Name: "Scarf", Price: price(t, "5.00"), IsActive: true}
	svc, _ := NewService(newStubCatalogStore(product))

	name := "Renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), false, product.ID, UpdateProductDTO{Name: &name})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestUpdateProductAdminOverridesOwnership(t *testing.T) {
	product := &models.Product{ID: uuid.New(), VendorID: uuid.New(), Name: "Scarf", Price: price(t, "5.00"), IsActive: true}
	svc, _ := NewService(newStubCatalogStore(product))

	name := "Renamed"
	dto, err := svc.UpdateProduct(context.Background(), uuid.New(), true, product.ID, UpdateProductDTO{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if dto.Name != "Renamed" {
		t.Fatalf("name = %q", dto.Name)
	}
}

func TestUpdateProductRejectsLoweredPriceUnderSale(t *testing.T) {
	product := &models.Product{
		ID:        uuid.New(),
		VendorID:  uuid.New(),
		Name:      "Scarf",
		Price:     price(t, "20.00"),
		SalePrice: decimal.NullDecimal{Decimal: price(t, "15.00"), Valid: true},
		IsActive:  true,
	}
	svc, _ := NewService(newStubCatalogStore(product))

	lower := "10.00"
	_, err := svc.UpdateProduct(context.Background(), product.VendorID, false, product.ID, UpdateProductDTO{Price: &lower})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateProductClearSale(t *testing.T) {
	product := &models.Product{
		ID:        uuid.New(),
		VendorID:  uuid.New(),
		Name:      "Scarf",
		Price:     price(t, "20.00"),
		SalePrice: decimal.NullDecimal{Decimal: price(t, "15.00"), Valid: true},
		IsActive:  true,
	}
	store := newStubCatalogStore(product)
	svc, _ := NewService(store)

	dto, err := svc.UpdateProduct(context.Background(), product.VendorID, false, product.ID, UpdateProductDTO{ClearSale: true})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if dto.SalePrice != nil {
		t.Fatalf("expected cleared sale price, got %v", dto.SalePrice)
	}
	if !dto.EffectivePrice.Equal(price(t, "20.00")) {
		t.Fatalf("effective price = %s", dto.EffectivePrice)
	}
}

func TestDeleteProductDeactivates(t *testing.T) {
	product := &models.Product{ID: uuid.New(), VendorID: uuid.New(), Name: "Scarf", Price: price(t, "5.00"), IsActive: true}
	store := newStubCatalogStore(product)
	svc, _ := NewService(store)

	if err := svc.DeleteProduct(context.Background(), product.VendorID, false, product.ID); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}
	if len(store.deactivated) != 1 || store.deactivated[0] != product.ID {
		t.Fatalf("expected deactivation, got %v", store.deactivated)
	}
}

func TestCreateCategoryNormalizesSlug(t *testing.T) {
	store := newStubCatalogStore()
	svc, _ := NewService(store)

	dto, err := svc.CreateCategory(context.Background(), CreateCategoryDTO{Name: "Home Goods", Slug: " Home-Goods "})
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}
	if dto.Slug != "home-goods" {
		t.Fatalf("slug = %q", dto.Slug)
	}
}
