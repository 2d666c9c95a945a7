package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
)

type recordedActivity struct {
	actions []string
}

func (r *recordedActivity) Record(_ context.Context, action string) {
	r.actions = append(r.actions, action)
}

func newTestService(t *testing.T) (Service, *Repository, *recordedActivity) {
	t.Helper()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	activity := &recordedActivity{}
	svc, err := NewService(repo, activity, nil, nil)
	require.NoError(t, err)
	return svc, repo, activity
}

func TestServiceCreateProduct(t *testing.T) {
	svc, _, activity := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "  Gloves  ",
		Category:   "ppe",
		PriceCents: 499,
		StockQty:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gloves", dto.Name)
	assert.Equal(t, 100, dto.StockQty)
	require.Len(t, activity.actions, 1)
	assert.Contains(t, activity.actions[0], "Gloves")
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{Name: "   ", PriceCents: 100, StockQty: 1},
		{Name: "x", PriceCents: -1, StockQty: 1},
		{Name: "x", PriceCents: 100, StockQty: -1},
	}
	for _, input := range cases {
		_, err := svc.CreateProduct(ctx, input)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}

func TestServiceUpdateProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Gloves", PriceCents: 499, StockQty: 10})
	require.NoError(t, err)

	name := "Nitrile Gloves"
	price := 599
	dto, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Name: &name, PriceCents: &price})
	require.NoError(t, err)
	assert.Equal(t, "Nitrile Gloves", dto.Name)
	assert.Equal(t, 599, dto.PriceCents)
	assert.Equal(t, 10, dto.StockQty)

	empty := "  "
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Name: &empty})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestServiceAdjustStock(t *testing.T) {
	svc, _, activity := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Masks", PriceCents: 250, StockQty: 5})
	require.NoError(t, err)

	dto, err := svc.AdjustStock(ctx, created.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 2, dto.StockQty)

	_, err = svc.AdjustStock(ctx, created.ID, -3)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))

	_, err = svc.AdjustStock(ctx, created.ID, 0)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	// create + successful adjustment
	assert.Len(t, activity.actions, 2)
}

func TestServiceDeleteProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Tape", PriceCents: 199, StockQty: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	_, err = svc.GetProduct(ctx, created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
