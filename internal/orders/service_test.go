package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/shoploop/shoploop-backend/pkg/db/models"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/payments"
)

type stubOrderStore struct {
	orders      map[uuid.UUID]*models.Order
	vendorSells map[uuid.UUID]bool // orderID -> vendor sells in it
}

func newStubOrderStore(orders ...*models.Order) *stubOrderStore {
	s := &stubOrderStore{orders: map[uuid.UUID]*models.Order{}, vendorSells: map[uuid.UUID]bool{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *stubOrderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderStore) ListByVendor(_ context.Context, _ uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for id, o := range s.orders {
		if s.vendorSells[id] {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderStore) ListAll(_ context.Context, _, _ int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	o, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderStore) VendorSellsInOrder(_ context.Context, orderID, _ uuid.UUID) (bool, error) {
	return s.vendorSells[orderID], nil
}

type stubCharger struct {
	charged []payments.PaymentCreateParams
	err     error
}

func (s *stubCharger) ChargeCard(_ context.Context, params payments.PaymentCreateParams) (*sq.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.charged = append(s.charged, params)
	return &sq.Payment{}, nil
}

func (s *stubCharger) LocationID() string { return "loc-test" }
func (s *stubCharger) Currency() string   { return "USD" }

func orderTotal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return d
}

func TestGetOrderOwner(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Total: orderTotal(t, "10.00"), Status: models.OrderStatusPending}
	svc, err := NewService(newStubOrderStore(order), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.GetOrder(context.Background(), Viewer{UserID: order.UserID}, order.ID)
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if dto.ID != order.ID {
		t.Fatalf("unexpected order: %+v", dto)
	}
}

func TestGetOrderStranger(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}
	svc, _ := NewService(newStubOrderStore(order), nil)

	_, err := svc.GetOrder(context.Background(), Viewer{UserID: uuid.New()}, order.ID)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestGetOrderAdmin(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}
	svc, _ := NewService(newStubOrderStore(order), nil)

	if _, err := svc.GetOrder(context.Background(), Viewer{UserID: uuid.New(), IsAdmin: true}, order.ID); err != nil {
		t.Fatalf("admin should see any order: %v", err)
	}
}

func TestGetOrderSellingVendor(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}
	store := newStubOrderStore(order)
	store.vendorSells[order.ID] = true
	svc, _ := NewService(store, nil)

	if _, err := svc.GetOrder(context.Background(), Viewer{UserID: uuid.New(), IsVendor: true}, order.ID); err != nil {
		t.Fatalf("selling vendor should see order: %v", err)
	}

	store.vendorSells[order.ID] = false
	if _, err := svc.GetOrder(context.Background(), Viewer{UserID: uuid.New(), IsVendor: true}, order.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("non-selling vendor should be rejected, got %v", err)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}
	store := newStubOrderStore(order)
	svc, _ := NewService(store, nil)

	dto, err := svc.AdminUpdateStatus(context.Background(), order.ID, UpdateStatusDTO{Status: "Shipped"})
	if err != nil {
		t.Fatalf("AdminUpdateStatus returned error: %v", err)
	}
	if dto.Status != models.OrderStatusShipped {
		t.Fatalf("status = %s", dto.Status)
	}
}

func TestAdminUpdateStatusRejectsUnknown(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
	svc, _ := NewService(newStubOrderStore(order), nil)

	_, err := svc.AdminUpdateStatus(context.Background(), order.ID, UpdateStatusDTO{Status: "misplaced"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestPayChargesCardAndAdvancesStatus(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Total: orderTotal(t, "42.50"), Status: models.OrderStatusPending}
	store := newStubOrderStore(order)
	charger := &stubCharger{}
	svc, _ := NewService(store, charger)

	dto, err := svc.Pay(context.Background(), order.UserID, order.ID, PayOrderDTO{SourceID: "cnon:abc"})
	if err != nil {
		t.Fatalf("Pay returned error: %v", err)
	}
	if dto.Status != models.OrderStatusProcessing {
		t.Fatalf("status = %s, want processing", dto.Status)
	}
	if len(charger.charged) != 1 {
		t.Fatalf("expected one charge, got %d", len(charger.charged))
	}
	if charger.charged[0].AmountCents != 4250 {
		t.Fatalf("amount cents = %d, want 4250", charger.charged[0].AmountCents)
	}
	if charger.charged[0].ReferenceID != order.ID.String() {
		t.Fatalf("reference id = %q", charger.charged[0].ReferenceID)
	}
}

func TestPayRejectsNonPendingOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Total: orderTotal(t, "10.00"), Status: models.OrderStatusProcessing}
	svc, _ := NewService(newStubOrderStore(order), &stubCharger{})

	_, err := svc.Pay(context.Background(), order.UserID, order.ID, PayOrderDTO{SourceID: "cnon:abc"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestPayRejectsOtherUsersOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Total: orderTotal(t, "10.00"), Status: models.OrderStatusPending}
	svc, _ := NewService(newStubOrderStore(order), &stubCharger{})

	_, err := svc.Pay(context.Background(), uuid.New(), order.ID, PayOrderDTO{SourceID: "cnon:abc"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestPayWithoutCharger(t *testing.T) {
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Total: orderTotal(t, "10.00"), Status: models.OrderStatusPending}
	svc, _ := NewService(newStubOrderStore(order), nil)

	_, err := svc.Pay(context.Background(), order.UserID, order.ID, PayOrderDTO{SourceID: "cnon:abc"})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}
