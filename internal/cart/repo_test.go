package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  icon TEXT,
  created_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  sale_price NUMERIC,
  image_url TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`

	for _, stmt := range []string{categories, products, cartItems} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		VendorID: uuid.New(),
		Name:     "Wool Scarf",
		Price:    decimal.RequireFromString("19.99"),
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestUpsertMergesQuantities(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	product := seedProduct(t, db)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, userID, product.ID, 2))
	require.NoError(t, repo.Upsert(ctx, userID, product.ID, 3))

	items, err := repo.ListWithProducts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, product.ID, items[0].Product.ID)
}

func TestUpsertKeepsUsersSeparate(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	product := seedProduct(t, db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, repo.Upsert(ctx, alice, product.ID, 1))
	require.NoError(t, repo.Upsert(ctx, bob, product.ID, 4))

	items, err := repo.ListWithProducts(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityMissingRow(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	err := repo.SetQuantity(context.Background(), uuid.New(), uuid.New(), 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearEmptiesOnlyOwnCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	product := seedProduct(t, db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, repo.Upsert(ctx, alice, product.ID, 2))
	require.NoError(t, repo.Upsert(ctx, bob, product.ID, 2))

	require.NoError(t, repo.Clear(ctx, alice))
	// Clearing an already empty cart stays a no-op success.
	require.NoError(t, repo.Clear(ctx, alice))

	aliceItems, err := repo.ListWithProducts(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceItems)

	bobItems, err := repo.ListWithProducts(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobItems, 1)
}
