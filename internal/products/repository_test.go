package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-configurator/pkg/db/models"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

func variableRow(id uuid.UUID) *models.Product {
	variantA := uuid.New()
	variantB := uuid.New()
	badge := enums.PackBadgeBestValue
	sku := "TEE-S"
	return &models.Product{
		ID:          id,
		Title:       "Tee",
		Shape:       enums.ProductShapeVariable,
		Price:       decimal.RequireFromString("10"),
		IsOrderable: true,
		OptionAxes: []models.ProductOptionAxis{
			{ID: uuid.New(), ProductID: id, Position: 1, Name: "Color", Values: pq.StringArray{"Red"}},
			{ID: uuid.New(), ProductID: id, Position: 0, Name: "Size", Values: pq.StringArray{"S", "M"}},
		},
		Variants: []models.ProductVariant{
			{
				ID: variantB, ProductID: id, Position: 1,
				OptionValues: pq.StringArray{"M", "Red"},
				Price:        decimal.RequireFromString("12"),
			},
			{
				ID: variantA, ProductID: id, Position: 0,
				OptionValues: pq.StringArray{"S", "Red"},
				SKU:          &sku,
				Price:        decimal.RequireFromString("10"),
				VolumeTiers: []models.ProductVolumeTier{
					{ID: uuid.New(), ProductID: id, Position: 1, MinQty: 3, Price: decimal.RequireFromString("27"), Badge: &badge},
					{ID: uuid.New(), ProductID: id, Position: 0, MinQty: 1, Price: decimal.RequireFromString("9.5")},
				},
			},
		},
	}
}

func TestRepositorySaveAndLoadVariableProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))
	id := uuid.New()

	created, err := repo.SaveProduct(ctx, variableRow(id))
	require.NoError(t, err)
	assert.True(t, created)

	loaded, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductShapeVariable, loaded.Shape)

	require.Len(t, loaded.OptionAxes, 2)
	assert.Equal(t, "Size", loaded.OptionAxes[0].Name)
	assert.Equal(t, pq.StringArray{"S", "M"}, loaded.OptionAxes[0].Values)
	assert.Equal(t, "Color", loaded.OptionAxes[1].Name)

	require.Len(t, loaded.Variants, 2)
	assert.Equal(t, pq.StringArray{"S", "Red"}, loaded.Variants[0].OptionValues)
	require.NotNil(t, loaded.Variants[0].SKU)
	assert.Equal(t, "TEE-S", *loaded.Variants[0].SKU)
	require.Len(t, loaded.Variants[0].VolumeTiers, 2)
	assert.Equal(t, 1, loaded.Variants[0].VolumeTiers[0].MinQty)
	assert.True(t, decimal.RequireFromString("9.5").Equal(loaded.Variants[0].VolumeTiers[0].Price))
	require.NotNil(t, loaded.Variants[0].VolumeTiers[1].Badge)
	assert.Equal(t, enums.PackBadgeBestValue, *loaded.Variants[0].VolumeTiers[1].Badge)
	assert.Empty(t, loaded.Variants[1].VolumeTiers)

	assert.Empty(t, loaded.VolumeTiers, "variant packs must not appear as product packs")
}

func TestRepositorySaveReplacesSections(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	id := uuid.New()

	_, err := repo.SaveProduct(ctx, variableRow(id))
	require.NoError(t, err)

	simple := &models.Product{
		ID:          id,
		Title:       "Tee (single)",
		Shape:       enums.ProductShapeSimple,
		Price:       decimal.RequireFromString("11"),
		IsOrderable: true,
		VolumeTiers: []models.ProductVolumeTier{
			{ID: uuid.New(), ProductID: id, Position: 0, MinQty: 2, Price: decimal.RequireFromString("20")},
		},
	}
	created, err := repo.SaveProduct(ctx, simple)
	require.NoError(t, err)
	assert.False(t, created)

	loaded, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tee (single)", loaded.Title)
	assert.Equal(t, enums.ProductShapeSimple, loaded.Shape)
	assert.Empty(t, loaded.OptionAxes)
	assert.Empty(t, loaded.Variants)
	require.Len(t, loaded.VolumeTiers, 1)
	assert.Equal(t, 2, loaded.VolumeTiers[0].MinQty)

	var tierCount int64
	require.NoError(t, conn.Model(&models.ProductVolumeTier{}).Where("product_id = ?", id).Count(&tierCount).Error)
	assert.Equal(t, int64(1), tierCount, "variant packs must be removed with their variants")
}

func TestRepositoryBundleItemsAndReferencePrices(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	repo := NewRepository(conn)

	first := mustCreateTestProduct(t, conn, "Candle", "30")
	second := mustCreateTestProduct(t, conn, "Soap", "40")

	bundleID := uuid.New()
	pricing := enums.BundlePricingDiscounted
	bundle := &models.Product{
		ID:                    bundleID,
		Title:                 "Gift set",
		Shape:                 enums.ProductShapeBundle,
		Price:                 decimal.RequireFromString("90"),
		BundlePricing:         &pricing,
		BundleDiscountPercent: decPtr("10"),
		IsOrderable:           true,
		BundleItems: []models.ProductBundleItem{
			{ID: uuid.New(), BundleID: bundleID, ProductID: second.ID, Position: 1, Quantity: 1},
			{ID: uuid.New(), BundleID: bundleID, ProductID: first.ID, Position: 0, Quantity: 2, PriceOverride: decPtr("25")},
		},
	}
	_, err := repo.SaveProduct(ctx, bundle)
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, bundleID)
	require.NoError(t, err)
	require.NotNil(t, loaded.BundlePricing)
	assert.Equal(t, enums.BundlePricingDiscounted, *loaded.BundlePricing)
	require.Len(t, loaded.BundleItems, 2)
	assert.Equal(t, first.ID, loaded.BundleItems[0].ProductID)
	require.NotNil(t, loaded.BundleItems[0].PriceOverride)
	assert.True(t, decimal.RequireFromString("25").Equal(*loaded.BundleItems[0].PriceOverride))

	missing := uuid.New()
	prices, err := repo.ReferencePrices(ctx, []uuid.UUID{first.ID, second.ID, missing})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.True(t, decimal.RequireFromString("30").Equal(prices[first.ID]))
	assert.True(t, decimal.RequireFromString("40").Equal(prices[second.ID]))
	_, ok := prices[missing]
	assert.False(t, ok)

	empty, err := repo.ReferencePrices(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)

	exists, err := repo.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
