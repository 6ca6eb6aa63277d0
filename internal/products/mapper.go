package product

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	"github.com/angelmondragon/storefront-configurator/pkg/db/models"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// ModelFromSubmission converts a submission into a product row carrying only the section of
// the submitted shape. Child ids are freshly generated because sections are replaced on save.
func ModelFromSubmission(sub configurator.Submission) *models.Product {
	row := &models.Product{
		ID:             sub.ID,
		Title:          sub.Title,
		Shape:          sub.Shape,
		Price:          sub.Price,
		CompareAtPrice: copyDecimal(sub.CompareAtPrice),
		IsOrderable:    sub.Orderable,
	}

	if sub.Simple != nil {
		row.VolumeTiers = tierRows(sub.ID, nil, sub.Simple.VolumeTiers)
	}

	if sub.Variable != nil {
		row.OptionAxes = make([]models.ProductOptionAxis, len(sub.Variable.OptionAxes))
		for i, axis := range sub.Variable.OptionAxes {
			row.OptionAxes[i] = models.ProductOptionAxis{
				ID:        uuid.New(),
				ProductID: sub.ID,
				Position:  i,
				Name:      axis.Name,
				Values:    pq.StringArray(append([]string{}, axis.Values...)),
			}
		}
		row.Variants = make([]models.ProductVariant, len(sub.Variable.Variants))
		for i, variant := range sub.Variable.Variants {
			variantID := uuid.New()
			row.Variants[i] = models.ProductVariant{
				ID:                variantID,
				ProductID:         sub.ID,
				Position:          i,
				OptionValues:      pq.StringArray(append([]string{}, variant.OptionValues...)),
				SKU:               optionalString(variant.SKU),
				Price:             variant.Price,
				CompareAtPrice:    copyDecimal(variant.CompareAtPrice),
				Badge:             copyBadge(variant.Badge),
				StockQuantity:     copyInt(variant.StockQuantity),
				LowStockThreshold: copyInt(variant.LowStockThreshold),
				AllowBackorder:    variant.AllowBackorder,
				VolumeTiers:       tierRows(sub.ID, &variantID, variant.Tiers),
			}
		}
	}

	if sub.Bundle != nil {
		pricing := sub.Bundle.Pricing
		row.BundlePricing = &pricing
		row.BundlePrice = copyDecimal(sub.Bundle.BundlePrice)
		row.BundleDiscountPercent = copyDecimal(sub.Bundle.DiscountPercent)
		row.BundleItems = make([]models.ProductBundleItem, len(sub.Bundle.Items))
		for i, item := range sub.Bundle.Items {
			row.BundleItems[i] = models.ProductBundleItem{
				ID:            uuid.New(),
				BundleID:      sub.ID,
				ProductID:     item.ProductID,
				Position:      i,
				Quantity:      item.Quantity,
				PriceOverride: copyDecimal(item.PriceOverride),
			}
		}
	}
	return row
}

func tierRows(productID uuid.UUID, variantID *uuid.UUID, tiers configurator.TierSet) []models.ProductVolumeTier {
	if len(tiers) == 0 {
		return nil
	}
	out := make([]models.ProductVolumeTier, len(tiers))
	for i, tier := range tiers {
		var owner *uuid.UUID
		if variantID != nil {
			id := *variantID
			owner = &id
		}
		out[i] = models.ProductVolumeTier{
			ID:             uuid.New(),
			ProductID:      productID,
			VariantID:      owner,
			Position:       i,
			MinQty:         tier.MinQuantity,
			MaxQty:         copyInt(tier.MaxQuantity),
			Price:          tier.Price,
			CompareAtPrice: copyDecimal(tier.CompareAtPrice),
			Badge:          copyBadge(tier.Badge),
		}
	}
	return out
}

// AggregateFromModel rebuilds the edit aggregate from a stored product. referencePrices
// supplies the current price of each bundled product. Rows that no longer fit their axes
// are dropped and counted; enum values the engine does not know are reported as errors.
func AggregateFromModel(row *models.Product, referencePrices map[uuid.UUID]decimal.Decimal) (configurator.Product, int, error) {
	var errs error
	if !row.Shape.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("product %s: unknown shape %q", row.ID, row.Shape))
	}

	out := configurator.NewProduct(row.Shape)
	out.ID = row.ID
	out.Title = row.Title
	out.Price = row.Price
	out.CompareAtPrice = copyDecimal(row.CompareAtPrice)

	tiers, err := tierSet(row.VolumeTiers)
	errs = multierr.Append(errs, err)
	out.Simple = configurator.SimpleConfig{Tiers: tiers}

	axes := make([]configurator.OptionAxis, len(row.OptionAxes))
	for i, axis := range row.OptionAxes {
		axes[i] = configurator.OptionAxis{Name: axis.Name, Values: append([]string{}, axis.Values...)}
	}
	variants := make([]configurator.Variant, len(row.Variants))
	for i, variant := range row.Variants {
		if variant.Badge != nil && !variant.Badge.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("variant %s: unknown badge %q", variant.ID, *variant.Badge))
		}
		variantTiers, err := tierSet(variant.VolumeTiers)
		errs = multierr.Append(errs, err)
		sku := ""
		if variant.SKU != nil {
			sku = *variant.SKU
		}
		variants[i] = configurator.Variant{
			OptionValues:      append([]string{}, variant.OptionValues...),
			SKU:               sku,
			Price:             variant.Price,
			CompareAtPrice:    copyDecimal(variant.CompareAtPrice),
			Badge:             copyBadge(variant.Badge),
			Tiers:             variantTiers,
			StockQuantity:     copyInt(variant.StockQuantity),
			LowStockThreshold: copyInt(variant.LowStockThreshold),
			AllowBackorder:    variant.AllowBackorder,
		}
	}
	matrix, dropped := configurator.NewMatrix(axes, variants)
	out.Variable = *matrix

	pricing := enums.BundlePricingFixed
	if row.BundlePricing != nil {
		if !row.BundlePricing.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("product %s: unknown bundle pricing %q", row.ID, *row.BundlePricing))
		} else {
			pricing = *row.BundlePricing
		}
	}
	items := make([]configurator.BundleItem, len(row.BundleItems))
	for i, item := range row.BundleItems {
		items[i] = configurator.BundleItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			PriceOverride:  copyDecimal(item.PriceOverride),
			ReferencePrice: referencePrices[item.ProductID],
		}
	}
	out.Bundle = configurator.NewBundle(items, pricing, row.BundlePrice, row.BundleDiscountPercent)

	if errs != nil {
		return configurator.Product{}, 0, errs
	}
	return out, dropped, nil
}

func tierSet(rows []models.ProductVolumeTier) (configurator.TierSet, error) {
	var errs error
	out := make(configurator.TierSet, 0, len(rows))
	for _, row := range rows {
		if row.Badge != nil && !row.Badge.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("volume tier %s: unknown badge %q", row.ID, *row.Badge))
		}
		out = append(out, configurator.VolumeTier{
			MinQuantity:    row.MinQty,
			MaxQuantity:    copyInt(row.MaxQty),
			Price:          row.Price,
			CompareAtPrice: copyDecimal(row.CompareAtPrice),
			Badge:          copyBadge(row.Badge),
		})
	}
	return out, errs
}

// BundleItemIDs lists the products referenced by a stored bundle.
func BundleItemIDs(row *models.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(row.BundleItems))
	for _, item := range row.BundleItems {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func copyDecimal(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func copyBadge(value *enums.PackBadge) *enums.PackBadge {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
