package editsessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
)

type priceLookup interface {
	ReferencePrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// editor applies decoded commands to one aggregate.
type editor struct {
	product         *configurator.Product
	prices          priceLookup
	removedVariants int
}

func (e *editor) apply(ctx context.Context, cmd Command) (bool, error) {
	p := e.product
	switch c := cmd.(type) {
	case *setTitleCommand:
		return p.SetTitle(strings.TrimSpace(c.Title)), nil
	case *setShapeCommand:
		return p.SetShape(c.Shape), nil
	case *setPriceCommand:
		return p.SetPrice(*c.Price), nil
	case *setCompareAtPriceCommand:
		return p.SetCompareAtPrice(c.CompareAtPrice), nil

	case *addSimpleTierCommand:
		return p.AddSimpleTier(), nil
	case *updateSimpleTierCommand:
		return p.UpdateSimpleTier(*c.TierIndex, c.Patch.patch()), nil
	case *removeSimpleTierCommand:
		return p.RemoveSimpleTier(*c.TierIndex), nil

	case *addAxisCommand:
		return p.Variable.AddAxis(c.Name, c.Values), nil
	case *moveAxisCommand:
		dir := configurator.MoveDown
		if c.Direction == "up" {
			dir = configurator.MoveUp
		}
		return p.Variable.MoveAxis(*c.AxisIndex, dir), nil
	case *removeAxisCommand:
		return p.Variable.RemoveAxis(*c.AxisIndex), nil
	case *addValueCommand:
		return p.Variable.AddValue(*c.AxisIndex, c.Value), nil
	case *renameValueCommand:
		return p.Variable.RenameValue(*c.AxisIndex, *c.ValueIndex, c.Value), nil
	case *removeValueCommand:
		return e.removeValue(c)

	case *updateVariantCommand:
		return p.Variable.UpdateVariant(*c.VariantIndex, c.Patch.patch()), nil
	case *addVariantTierCommand:
		return p.Variable.AddVariantTier(*c.VariantIndex), nil
	case *updateVariantTierCommand:
		return p.Variable.UpdateVariantTier(*c.VariantIndex, *c.TierIndex, c.Patch.patch()), nil
	case *removeVariantTierCommand:
		return p.Variable.RemoveVariantTier(*c.VariantIndex, *c.TierIndex), nil
	case *copyVariantTiersCommand:
		return p.Variable.CopyVariantTiers(*c.TargetIndex, *c.SourceIndex), nil

	case *addBundleItemCommand:
		return e.addBundleItem(ctx, c)
	case *removeBundleItemCommand:
		return p.Bundle.RemoveItem(c.ProductID), nil
	case *setBundleItemQuantityCommand:
		return p.Bundle.SetItemQuantity(c.ProductID, *c.Quantity), nil
	case *setBundleItemOverrideCommand:
		return p.Bundle.SetItemOverride(c.ProductID, c.PriceOverride), nil
	case *setBundlePricingCommand:
		return p.Bundle.SetPricing(c.Pricing), nil
	case *setBundlePriceCommand:
		return p.Bundle.SetBundlePrice(c.BundlePrice), nil
	case *setBundleDiscountPercentCommand:
		return p.Bundle.SetDiscountPercent(c.DiscountPercent), nil
	case *refreshReferencePricesCommand:
		return e.refreshReferencePrices(ctx)
	}
	return false, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unhandled command %T", cmd))
}

// removeValue deletes an option value only when the caller confirmed the exact number of
// variants the removal deletes.
func (e *editor) removeValue(c *removeValueCommand) (bool, error) {
	plan, ok := e.product.Variable.PrepareValueRemoval(*c.AxisIndex, *c.ValueIndex)
	if !ok {
		return false, nil
	}
	if *c.ConfirmCount != plan.AffectedVariants {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "confirm_count does not match the variants this removal deletes").
			WithDetails(map[string]any{
				"affected_variants": plan.AffectedVariants,
				"removes_axis":      plan.RemovesAxis,
				"value":             plan.Value,
			})
	}
	if !e.product.Variable.ApplyValueRemoval(plan) {
		return false, nil
	}
	e.removedVariants = plan.AffectedVariants
	return true, nil
}

func (e *editor) addBundleItem(ctx context.Context, c *addBundleItemCommand) (bool, error) {
	if c.ProductID == e.product.ID {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "bundle cannot contain itself").
			WithDetails(map[string]string{"product_id": "must reference another product"})
	}
	for _, item := range e.product.Bundle.Items {
		if item.ProductID == c.ProductID {
			return false, nil
		}
	}

	prices, err := e.prices.ReferencePrices(ctx, []uuid.UUID{c.ProductID})
	if err != nil {
		return false, err
	}
	price, ok := prices[c.ProductID]
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "bundled product not found").
			WithDetails(map[string]string{"product_id": c.ProductID.String()})
	}

	quantity := 1
	if c.Quantity != nil {
		quantity = *c.Quantity
	}
	return e.product.Bundle.AddItem(c.ProductID, quantity, price), nil
}

// refreshReferencePrices re-reads the price of every bundled product. Items whose product
// no longer exists keep their last known price.
func (e *editor) refreshReferencePrices(ctx context.Context) (bool, error) {
	items := e.product.Bundle.Items
	if len(items) == 0 {
		return false, nil
	}
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	prices, err := e.prices.ReferencePrices(ctx, ids)
	if err != nil {
		return false, err
	}

	changed := false
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok || price.Equal(item.ReferencePrice) {
			continue
		}
		if e.product.Bundle.SetItemReferencePrice(item.ProductID, price) {
			changed = true
		}
	}
	return changed, nil
}
