package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	"github.com/angelmondragon/storefront-configurator/pkg/db"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewFromGorm(conn))
	require.NoError(t, err)
	return svc, repo
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)
	_, err = NewService(&Repository{}, nil)
	assert.Error(t, err)
}

func TestServiceSubmitThenReload(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	p := configurator.NewProduct(enums.ProductShapeVariable)
	p.Title = "Coffee"
	require.True(t, p.Variable.AddAxis("Weight", "500g, 1kg"))
	require.True(t, p.Variable.UpdateVariant(0, configurator.VariantPatch{Price: decPtr("10")}))
	require.True(t, p.Variable.UpdateVariant(1, configurator.VariantPatch{Price: decPtr("18")}))

	dto, err := svc.SaveSubmission(ctx, configurator.BuildSubmission(p))
	require.NoError(t, err)
	assert.True(t, dto.Created)
	assert.Equal(t, "variable", dto.Shape)
	assert.True(t, decimal.RequireFromString("10").Equal(dto.Price))
	assert.Equal(t, 2, dto.Variants)
	assert.True(t, dto.IsOrderable)

	loaded, err := svc.LoadProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, loaded.DroppedVariants)
	assert.Equal(t, "Coffee", loaded.Product.Title)
	assert.Equal(t, 2, loaded.Product.Variable.Len())
	assert.True(t, decimal.RequireFromString("10").Equal(configurator.CanonicalPrice(loaded.Product)))

	dto, err = svc.SaveSubmission(ctx, configurator.BuildSubmission(loaded.Product))
	require.NoError(t, err)
	assert.False(t, dto.Created)
}

func TestServiceLoadMissingProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.LoadProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceBundleValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	component := mustCreateTestProduct(t, repo.db, "Candle", "30")

	p := configurator.NewProduct(enums.ProductShapeBundle)
	require.True(t, p.Bundle.AddItem(uuid.New(), 1, decimal.Zero))
	_, err := svc.SaveSubmission(ctx, configurator.BuildSubmission(p))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	self := configurator.NewProduct(enums.ProductShapeBundle)
	require.True(t, self.Bundle.AddItem(self.ID, 1, decimal.Zero))
	_, err = svc.SaveSubmission(ctx, configurator.BuildSubmission(self))
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	ok := configurator.NewProduct(enums.ProductShapeBundle)
	require.True(t, ok.Bundle.AddItem(component.ID, 2, decimal.RequireFromString("30")))
	require.True(t, ok.Bundle.SetPricing(enums.BundlePricingDiscounted))
	require.True(t, ok.Bundle.SetDiscountPercent(decPtr("10")))
	dto, err := svc.SaveSubmission(ctx, configurator.BuildSubmission(ok))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("54").Equal(dto.Price))
	assert.Equal(t, 1, dto.BundleItems)

	prices, err := svc.ReferencePrices(ctx, []uuid.UUID{component.ID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("30").Equal(prices[component.ID]))

	loaded, err := svc.LoadProduct(ctx, ok.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Product.Bundle.Items, 1)
	assert.True(t, decimal.RequireFromString("30").Equal(loaded.Product.Bundle.Items[0].ReferencePrice))
}

func TestServiceRejectsInvalidSubmission(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SaveSubmission(context.Background(), configurator.Submission{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.SaveSubmission(context.Background(), configurator.Submission{ID: uuid.New(), Shape: "kit"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
