package configurator

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

const displayPlaces = 2

// Selection is a buyer's choice on the storefront. VariantIndex is required for variable
// products; PackTierIndex picks a pack from the simple product or the chosen variant.
type Selection struct {
	VariantIndex  *int `json:"variant_index,omitempty"`
	PackTierIndex *int `json:"pack_tier_index,omitempty"`
	PackCount     int  `json:"pack_count,omitempty"`
	Quantity      int  `json:"quantity,omitempty"`
}

// PriceDisplay is the storefront-facing price. From marks a "From <min>" range label.
type PriceDisplay struct {
	Amount              decimal.Decimal  `json:"amount"`
	MaxAmount           decimal.Decimal  `json:"max_amount"`
	From                bool             `json:"from"`
	Label               string           `json:"label"`
	LowestPackUnitPrice *decimal.Decimal `json:"lowest_pack_unit_price,omitempty"`
}

// Summary is the derived read model shown while editing and checked before submit.
type Summary struct {
	Shape          enums.ProductShape `json:"shape"`
	CanonicalPrice decimal.Decimal    `json:"canonical_price"`
	Display        PriceDisplay       `json:"display"`
	Warnings       []PackWarning      `json:"warnings"`
	Orderable      bool               `json:"orderable"`
	VariantCount   int                `json:"variant_count"`
}

// EffectiveVariantPrice is the variant's Buy-1 pack price when it has one, otherwise its
// own price field.
func EffectiveVariantPrice(v Variant) decimal.Decimal {
	if tier, _, ok := v.Tiers.BuyOne(); ok {
		return tier.Price
	}
	return v.Price
}

// CanonicalPrice derives the single price persisted to the catalog.
func CanonicalPrice(p Product) decimal.Decimal {
	switch p.Shape {
	case enums.ProductShapeSimple:
		return p.Price
	case enums.ProductShapeVariable:
		low, _, ok := variantPriceRange(&p.Variable)
		if !ok {
			return decimal.Zero
		}
		return low
	case enums.ProductShapeBundle:
		return bundleCanonicalPrice(p.Bundle)
	default:
		return decimal.Zero
	}
}

func bundleCanonicalPrice(b Bundle) decimal.Decimal {
	switch b.Pricing {
	case enums.BundlePricingFixed:
		if b.BundlePrice == nil {
			return decimal.Zero
		}
		return *b.BundlePrice
	case enums.BundlePricingDiscounted:
		if b.DiscountPercent == nil {
			return decimal.Zero
		}
		factor := decimal.NewFromInt(1).Sub(b.DiscountPercent.Div(hundred))
		price := b.Subtotal().Mul(factor)
		if price.IsNegative() {
			return decimal.Zero
		}
		return price
	default:
		// sum bundles are priced by the catalog from its live component prices.
		return decimal.Zero
	}
}

func variantPriceRange(m *Matrix) (decimal.Decimal, decimal.Decimal, bool) {
	if len(m.variants) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	low := EffectiveVariantPrice(m.variants[0])
	high := low
	for _, variant := range m.variants[1:] {
		price := EffectiveVariantPrice(variant)
		if price.LessThan(low) {
			low = price
		}
		if price.GreaterThan(high) {
			high = price
		}
	}
	return low, high, true
}

// selectionTiers returns the packs and base price that apply to the selection.
func selectionTiers(p Product, sel Selection) (TierSet, decimal.Decimal, bool) {
	switch p.Shape {
	case enums.ProductShapeSimple:
		return p.Simple.Tiers, p.Price, true
	case enums.ProductShapeVariable:
		if sel.VariantIndex == nil {
			return nil, decimal.Zero, false
		}
		variant, ok := p.Variable.Variant(*sel.VariantIndex)
		if !ok {
			return nil, decimal.Zero, false
		}
		return variant.Tiers, EffectiveVariantPrice(variant), true
	case enums.ProductShapeBundle:
		if p.Bundle.Pricing == enums.BundlePricingSum {
			return nil, p.Bundle.Subtotal(), true
		}
		return nil, CanonicalPrice(p), true
	default:
		return nil, decimal.Zero, false
	}
}

// UnitPrice is the unrounded per-unit price the buyer pays for the selection.
func UnitPrice(p Product, sel Selection) (decimal.Decimal, bool) {
	tiers, base, ok := selectionTiers(p, sel)
	if !ok {
		return decimal.Zero, false
	}
	if sel.PackTierIndex == nil {
		return base, true
	}
	idx := *sel.PackTierIndex
	if idx < 0 || idx >= len(tiers) {
		return decimal.Zero, false
	}
	return tiers[idx].UnitPrice(), true
}

// PurchaseQuantity is the number of units a selection adds to the cart: pack size times
// the number of packs, or the raw quantity when no pack is chosen.
func PurchaseQuantity(p Product, sel Selection) (int, bool) {
	tiers, _, ok := selectionTiers(p, sel)
	if !ok {
		return 0, false
	}
	if sel.PackTierIndex == nil {
		return sel.Quantity, true
	}
	idx := *sel.PackTierIndex
	if idx < 0 || idx >= len(tiers) {
		return 0, false
	}
	packs := sel.PackCount
	if packs < 1 {
		packs = 1
	}
	return tiers[idx].quantity() * packs, true
}

// DisplayPrice builds the storefront label. Variable products with variants are always
// shown as "From <min>" over the variants' effective prices.
func DisplayPrice(p Product) PriceDisplay {
	switch p.Shape {
	case enums.ProductShapeVariable:
		low, high, ok := variantPriceRange(&p.Variable)
		if !ok {
			return fixedDisplay(decimal.Zero)
		}
		display := fixedDisplay(low)
		display.MaxAmount = high
		display.From = true
		display.Label = "From " + FormatPrice(low)
		display.LowestPackUnitPrice = lowestPackUnitPrice(p.Variable.variants, low)
		return display
	case enums.ProductShapeBundle:
		if p.Bundle.Pricing == enums.BundlePricingSum {
			return fixedDisplay(p.Bundle.Subtotal())
		}
		return fixedDisplay(CanonicalPrice(p))
	default:
		display := fixedDisplay(p.Price)
		display.LowestPackUnitPrice = lowestTierUnitPrice(p.Simple.Tiers, p.Price)
		return display
	}
}

func fixedDisplay(amount decimal.Decimal) PriceDisplay {
	return PriceDisplay{Amount: amount, MaxAmount: amount, Label: FormatPrice(amount)}
}

// lowestPackUnitPrice returns the cheapest multi-unit pack unit price below floor.
func lowestPackUnitPrice(variants []Variant, floor decimal.Decimal) *decimal.Decimal {
	var lowest *decimal.Decimal
	for _, variant := range variants {
		if candidate := lowestTierUnitPrice(variant.Tiers, floor); candidate != nil {
			if lowest == nil || candidate.LessThan(*lowest) {
				lowest = candidate
			}
		}
	}
	return lowest
}

func lowestTierUnitPrice(tiers TierSet, floor decimal.Decimal) *decimal.Decimal {
	var lowest *decimal.Decimal
	for _, tier := range tiers {
		if tier.MinQuantity <= 1 {
			continue
		}
		unit := tier.UnitPrice()
		if !unit.LessThan(floor) {
			continue
		}
		if lowest == nil || unit.LessThan(*lowest) {
			value := unit
			lowest = &value
		}
	}
	return lowest
}

// FormatPrice rounds to cents for display only.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(displayPlaces)
}

// Orderable reports whether the active shape has something to sell.
func Orderable(p Product) bool {
	switch p.Shape {
	case enums.ProductShapeVariable:
		return p.Variable.Len() > 0
	case enums.ProductShapeBundle:
		return len(p.Bundle.Items) > 0
	default:
		return true
	}
}

// Summarize derives the complete read model for the aggregate.
func Summarize(p Product) Summary {
	summary := Summary{
		Shape:          p.Shape,
		CanonicalPrice: CanonicalPrice(p),
		Display:        DisplayPrice(p),
		Warnings:       []PackWarning{},
		Orderable:      Orderable(p),
	}
	switch p.Shape {
	case enums.ProductShapeVariable:
		summary.VariantCount = p.Variable.Len()
		if warnings := p.Variable.Warnings(); len(warnings) > 0 {
			summary.Warnings = warnings
		}
	case enums.ProductShapeSimple:
		if warnings := p.Simple.Tiers.Warnings(); len(warnings) > 0 {
			summary.Warnings = warnings
		}
	}
	return summary
}
