package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomlabs/stockroom-backend/internal/catalog"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/types"
)

type stubCatalogService struct {
	createFn func(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error)
	adjustFn func(ctx context.Context, id uuid.UUID, delta int) (*catalog.ProductDTO, error)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return s.createFn(ctx, input)
}

func (s *stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) ListProducts(context.Context) ([]catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCatalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*catalog.ProductDTO, error) {
	return s.adjustFn(ctx, id, delta)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestCreateProductSuccess(t *testing.T) {
	productID := uuid.New()
	svc := &stubCatalogService{
		createFn: func(_ context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
			assert.Equal(t, "Widget", input.Name)
			assert.Equal(t, 1500, input.PriceCents)
			return &catalog.ProductDTO{ID: productID, Name: input.Name, Category: input.Category, PriceCents: input.PriceCents, StockQty: input.StockQty}, nil
		},
	}

	body, _ := json.Marshal(map[string]any{
		"name":        "Widget",
		"category":    "Hardware",
		"price_cents": 1500,
		"stock_qty":   10,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	CreateProduct(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, productID.String(), data["id"])
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	svc := &stubCatalogService{
		createFn: func(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
			t.Fatal("service should not be reached")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{"name":"Widget"}`)))
	rec := httptest.NewRecorder()

	CreateProduct(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestAdjustStockInsufficient(t *testing.T) {
	productID := uuid.New()
	svc := &stubCatalogService{
		adjustFn: func(_ context.Context, id uuid.UUID, delta int) (*catalog.ProductDTO, error) {
			assert.Equal(t, productID, id)
			assert.Equal(t, -5, delta)
			return nil, pkgerrors.InsufficientStock(id.String(), 5, 2)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/adjust-stock", bytes.NewReader([]byte(`{"delta":-5}`)))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	AdjustStock(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INSUFFICIENT_STOCK", envelope.Error.Code)
}

func TestAdjustStockRejectsBadID(t *testing.T) {
	svc := &stubCatalogService{
		adjustFn: func(context.Context, uuid.UUID, int) (*catalog.ProductDTO, error) {
			t.Fatal("service should not be reached")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/nope/adjust-stock", bytes.NewReader([]byte(`{"delta":1}`)))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("productId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	AdjustStock(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
