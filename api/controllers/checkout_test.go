package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/shoploop/shoploop-backend/internal/checkout"
	"github.com/shoploop/shoploop-backend/internal/orders"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/payments"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
	input  checkoutsvc.Input
}

func (s *stubCheckoutService) Execute(_ context.Context, _ uuid.UUID, input checkoutsvc.Input) (*checkoutsvc.Result, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestCheckoutCreatesOrder(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		Order: &orders.OrderDTO{ID: orderID, Total: decimal.RequireFromString("45.00")},
		Payment: payments.Handoff{
			Method:    payments.MethodBankTransfer,
			Reference: "SL-ABCD1234",
		},
	}}
	handler := Checkout(svc, nil)

	addressID := uuid.New()
	body := `{"address_id":"` + addressID.String() + `","payment_method":"bank_transfer"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.AddressID != addressID {
		t.Fatalf("address id not forwarded: %s", svc.input.AddressID)
	}

	var envelope struct {
		Data struct {
			Order struct {
				ID uuid.UUID `json:"id"`
			} `json:"order"`
			Payment struct {
				Method    string `json:"method"`
				Reference string `json:"reference"`
			} `json:"payment"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order.ID != orderID {
		t.Fatalf("unexpected order id: %s", envelope.Data.Order.ID)
	}
	if envelope.Data.Payment.Method != "bank_transfer" || envelope.Data.Payment.Reference == "" {
		t.Fatalf("unexpected payment handoff: %+v", envelope.Data.Payment)
	}
}

func TestCheckoutRequiresBody(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutTotalConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "cart total changed: expected 9.50, current 10.00")}
	handler := Checkout(svc, nil)

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"card","expected_total":"9.50"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(envelope.Error.Message, "cart total changed") {
		t.Fatalf("unexpected message: %q", envelope.Error.Message)
	}
}
