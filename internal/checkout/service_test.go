package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/config"
	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/payments"
)

type stubCartAccess struct {
	items   []models.CartItem
	cleared int
}

func (s *stubCartAccess) ListWithProducts(_ context.Context, _ uuid.UUID) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCartAccess) Clear(_ context.Context, _ uuid.UUID) error {
	s.cleared++
	return nil
}

func (s *stubCartAccess) WithTx(_ *gorm.DB) CartAccess { return s }

type stubOrderWriter struct {
	created *models.Order
	err     error
}

func (s *stubOrderWriter) Create(_ context.Context, order *models.Order) error {
	if s.err != nil {
		return s.err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return nil
}

func (s *stubOrderWriter) WithTx(_ *gorm.DB) OrderWriter { return s }

type stubAddressVerifier struct {
	address *models.Address
	err     error
}

func (s *stubAddressVerifier) OwnedAddress(_ context.Context, _, _ uuid.UUID) (*models.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.address, nil
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func d(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return v
}

func cartLine(t *testing.T, qty int, price, salePrice string, active bool) models.CartItem {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Item",
		Price:    d(t, price),
		IsActive: active,
	}
	if salePrice != "" {
		product.SalePrice = decimal.NullDecimal{Decimal: d(t, salePrice), Valid: true}
	}
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  qty,
		Product:   product,
	}
}

type fixture struct {
	svc     Service
	cart    *stubCartAccess
	writer  *stubOrderWriter
	tx      *stubTxRunner
	address *models.Address
	userID  uuid.UUID
}

func newFixture(t *testing.T, items ...models.CartItem) *fixture {
	t.Helper()
	userID := uuid.New()
	address := &models.Address{
		ID:      uuid.New(),
		UserID:  userID,
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62704",
		Country: "USA",
	}
	cartAccess := &stubCartAccess{items: items}
	writer := &stubOrderWriter{}
	tx := &stubTxRunner{}
	svc, err := NewService(cartAccess, writer, &stubAddressVerifier{address: address}, tx, config.PaymentsConfig{
		HostedRedirectBase: "https://pay.example.com/session",
		BankBeneficiary:    "ShopLoop Marketplace Ltd",
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return &fixture{svc: svc, cart: cartAccess, writer: writer, tx: tx, address: address, userID: userID}
}

func TestExecuteCreatesOrderAtCurrentPrices(t *testing.T) {
	f := newFixture(t,
		cartLine(t, 2, "10.00", "", true),
		cartLine(t, 1, "30.00", "25.00", true),
	)

	result, err := f.svc.Execute(context.Background(), f.userID, Input{
		AddressID:     f.address.ID,
		PaymentMethod: "bank_transfer",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if !result.Order.Total.Equal(d(t, "45.00")) {
		t.Fatalf("total = %s, want 45.00", result.Order.Total)
	}
	if result.Order.Status != models.OrderStatusPending {
		t.Fatalf("status = %s", result.Order.Status)
	}
	if len(result.Order.Items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(result.Order.Items))
	}
	if result.Order.ShippingAddress != "1 Main St, Springfield, IL 62704, USA" {
		t.Fatalf("shipping address = %q", result.Order.ShippingAddress)
	}
	if f.cart.cleared != 1 {
		t.Fatal("cart should be cleared exactly once")
	}
	if f.tx.calls != 1 {
		t.Fatal("order create and cart clear should share one transaction")
	}
	if result.Payment.Method != payments.MethodBankTransfer || result.Payment.Reference == "" {
		t.Fatalf("unexpected payment handoff: %+v", result.Payment)
	}
}

func TestExecuteSalePriceWins(t *testing.T) {
	f := newFixture(t, cartLine(t, 3, "30.00", "25.00", true))

	result, err := f.svc.Execute(context.Background(), f.userID, Input{
		AddressID:     f.address.ID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Order.Total.Equal(d(t, "75.00")) {
		t.Fatalf("total = %s, want 75.00", result.Order.Total)
	}
	if !result.Order.Items[0].Price.Equal(d(t, "25.00")) {
		t.Fatalf("line price = %s, want sale price", result.Order.Items[0].Price)
	}
}

func TestExecuteEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Execute(context.Background(), f.userID, Input{AddressID: f.address.ID, PaymentMethod: "card"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if f.writer.created != nil {
		t.Fatal("no order should be created")
	}
}

func TestExecuteInactiveProduct(t *testing.T) {
	f := newFixture(t, cartLine(t, 1, "10.00", "", false))
	_, err := f.svc.Execute(context.Background(), f.userID, Input{AddressID: f.address.ID, PaymentMethod: "card"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
	if f.writer.created != nil {
		t.Fatal("no order should be created")
	}
}

func TestExecuteExpectedTotalMismatch(t *testing.T) {
	f := newFixture(t, cartLine(t, 1, "10.00", "", true))
	expected := "9.50"
	_, err := f.svc.Execute(context.Background(), f.userID, Input{
		AddressID:     f.address.ID,
		PaymentMethod: "card",
		ExpectedTotal: &expected,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if f.cart.cleared != 0 {
		t.Fatal("cart must not be cleared on mismatch")
	}
}

func TestExecuteExpectedTotalMatch(t *testing.T) {
	f := newFixture(t, cartLine(t, 2, "10.00", "", true))
	expected := "20.00"
	if _, err := f.svc.Execute(context.Background(), f.userID, Input{
		AddressID:     f.address.ID,
		PaymentMethod: "card",
		ExpectedTotal: &expected,
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
}

func TestExecuteInvalidPaymentMethod(t *testing.T) {
	f := newFixture(t, cartLine(t, 1, "10.00", "", true))
	_, err := f.svc.Execute(context.Background(), f.userID, Input{AddressID: f.address.ID, PaymentMethod: "paypal"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestExecuteForeignAddress(t *testing.T) {
	f := newFixture(t, cartLine(t, 1, "10.00", "", true))
	verifier := &stubAddressVerifier{err: pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to user")}
	svc, _ := NewService(f.cart, f.writer, verifier, f.tx, config.PaymentsConfig{})

	_, err := svc.Execute(context.Background(), f.userID, Input{AddressID: uuid.New(), PaymentMethod: "card"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestExecuteHostedRedirectHandoff(t *testing.T) {
	f := newFixture(t, cartLine(t, 1, "10.00", "", true))
	result, err := f.svc.Execute(context.Background(), f.userID, Input{
		AddressID:     f.address.ID,
		PaymentMethod: "hosted_redirect",
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	want := "https://pay.example.com/session/" + result.Order.ID.String()
	if result.Payment.RedirectURL != want {
		t.Fatalf("redirect url = %q, want %q", result.Payment.RedirectURL, want)
	}
}
