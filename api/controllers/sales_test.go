package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/internal/sales"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

type stubSaleService struct {
	sale      *models.Sale
	err       error
	lastInput sales.FinalizeInput
}

func (s *stubSaleService) Finalize(_ context.Context, input sales.FinalizeInput) (*models.Sale, error) {
	s.lastInput = input
	return s.sale, s.err
}

func (s *stubSaleService) Get(_ context.Context, _ uuid.UUID) (*models.Sale, error) {
	return s.sale, s.err
}

func (s *stubSaleService) List(_ context.Context, _ sales.ListFilter) ([]models.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.sale == nil {
		return nil, nil
	}
	return []models.Sale{*s.sale}, nil
}

func (s *stubSaleService) UpdateStatus(_ context.Context, _ uuid.UUID, _ enums.OrderStatus) (*models.Sale, error) {
	return s.sale, s.err
}

func TestSaleFinalizeSuccess(t *testing.T) {
	productID := uuid.New()
	stub := &stubSaleService{sale: &models.Sale{
		ID:           uuid.New(),
		CustomerName: "Walk-in Customer",
		Subtotal:     20,
		Tax:          3.6,
		Total:        23.6,
		Status:       enums.OrderStatusCompleted,
	}}
	handler := SaleFinalize(stub, nil)

	payload := map[string]any{
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2},
		},
		"payment_method": "cash",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.lastInput.Lines) != 1 || stub.lastInput.Lines[0].ProductID != productID {
		t.Fatalf("unexpected lines passed to service: %+v", stub.lastInput.Lines)
	}
	if stub.lastInput.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("expected cash got %s", stub.lastInput.PaymentMethod)
	}

	var envelope struct {
		Data sales.SaleDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 23.6 {
		t.Fatalf("expected total 23.6 got %v", envelope.Data.Total)
	}
}

func TestSaleFinalizeRejectsUnknownPaymentMethod(t *testing.T) {
	handler := SaleFinalize(&stubSaleService{}, nil)

	body, _ := json.Marshal(map[string]any{
		"items":          []map[string]any{{"product_id": uuid.New(), "quantity": 1}},
		"payment_method": "cheque",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleFinalizeRejectsEmptyItems(t *testing.T) {
	handler := SaleFinalize(&stubSaleService{}, nil)

	body, _ := json.Marshal(map[string]any{
		"items":          []map[string]any{},
		"payment_method": "cash",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleFinalizeMapsOutOfStock(t *testing.T) {
	stub := &stubSaleService{err: pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock")}
	handler := SaleFinalize(stub, nil)

	body, _ := json.Marshal(map[string]any{
		"items":          []map[string]any{{"product_id": uuid.New(), "quantity": 5}},
		"payment_method": "cash",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeOutOfStock) {
		t.Fatalf("expected out_of_stock got %s", envelope.Error.Code)
	}
}

func TestSaleListRejectsBadTimeFilter(t *testing.T) {
	handler := SaleList(&stubSaleService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?from=yesterday", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSaleUpdateStatusRejectsBadID(t *testing.T) {
	handler := SaleUpdateStatus(&stubSaleService{}, nil)

	body, _ := json.Marshal(map[string]any{"status": "cancelled"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sales/not-a-uuid/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
