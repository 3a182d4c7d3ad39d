package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

type stubProductService struct {
	product    *models.Product
	err        error
	barcode    string
	lastCreate products.CreateInput
	lastFilter products.ListFilter
}

func (s *stubProductService) Create(_ context.Context, input products.CreateInput) (*models.Product, error) {
	s.lastCreate = input
	return s.product, s.err
}

func (s *stubProductService) Update(_ context.Context, _ uuid.UUID, _ products.UpdateInput) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Get(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) GetByBarcode(_ context.Context, _ string) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func (s *stubProductService) List(_ context.Context, filter products.ListFilter) ([]models.Product, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil {
		return nil, nil
	}
	return []models.Product{*s.product}, nil
}

func (s *stubProductService) GenerateBarcode(_ context.Context) (string, error) {
	return s.barcode, s.err
}

func TestProductCreateDefaultsActive(t *testing.T) {
	stub := &stubProductService{product: &models.Product{ID: uuid.New(), Name: "Rice", Active: true}}
	handler := ProductCreate(stub, nil)

	body, _ := json.Marshal(map[string]any{
		"name":        "Rice",
		"price":       10.0,
		"stock":       5,
		"category_id": uuid.New(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.lastCreate.Active {
		t.Fatal("expected active to default to true")
	}
}

func TestProductCreateRejectsUnknownField(t *testing.T) {
	handler := ProductCreate(&stubProductService{}, nil)

	body := []byte(`{"name":"Rice","price":10,"stock":5,"category_id":"` + uuid.NewString() + `","bogus":1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProductGetByBarcodeNotFound(t *testing.T) {
	stub := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductGetByBarcode(stub, nil)

	router := chi.NewRouter()
	router.Get("/products/barcode/{code}", handler)

	req := httptest.NewRequest(http.MethodGet, "/products/barcode/89000000000005", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestProductListParsesFilters(t *testing.T) {
	stub := &stubProductService{}
	handler := ProductList(stub, nil)

	categoryID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?active=true&low_stock=true&category_id="+categoryID.String(), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !stub.lastFilter.ActiveOnly || !stub.lastFilter.LowStockOnly {
		t.Fatalf("expected both boolean filters set: %+v", stub.lastFilter)
	}
	if stub.lastFilter.CategoryID != categoryID {
		t.Fatalf("expected category %s got %s", categoryID, stub.lastFilter.CategoryID)
	}
}

func TestProductGenerateBarcode(t *testing.T) {
	handler := ProductGenerateBarcode(&stubProductService{barcode: "89012345678905"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/generate-barcode", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["barcode"] != "89012345678905" {
		t.Fatalf("unexpected barcode %q", envelope.Data["barcode"])
	}
}
