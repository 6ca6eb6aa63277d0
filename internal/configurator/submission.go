package configurator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// Submission is the immutable snapshot handed to the catalog on submit. Exactly one of
// Simple, Variable and Bundle is set, matching Shape; the others are omitted entirely.
type Submission struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Shape          enums.ProductShape  `json:"shape"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice *decimal.Decimal    `json:"compare_at_price,omitempty"`
	Orderable      bool                `json:"orderable"`
	Simple         *SimpleSubmission   `json:"simple,omitempty"`
	Variable       *VariableSubmission `json:"variable,omitempty"`
	Bundle         *BundleSubmission   `json:"bundle,omitempty"`
}

// SimpleSubmission carries the packs of a simple product.
type SimpleSubmission struct {
	VolumeTiers TierSet `json:"volume_tiers,omitempty"`
}

// VariableSubmission carries the axes and variant rows of a variable product.
type VariableSubmission struct {
	OptionAxes []OptionAxis `json:"option_axes"`
	Variants   []Variant    `json:"variants"`
}

// BundleSubmission carries the bundle composition.
type BundleSubmission struct {
	Items           []BundleItemSubmission `json:"items"`
	Pricing         enums.BundlePricing    `json:"pricing"`
	BundlePrice     *decimal.Decimal       `json:"bundle_price,omitempty"`
	DiscountPercent *decimal.Decimal       `json:"discount_percent,omitempty"`
}

// BundleItemSubmission is a persisted bundle line; reference prices stay in the session.
type BundleItemSubmission struct {
	ProductID     uuid.UUID        `json:"product_id"`
	Quantity      int              `json:"quantity"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
}

// BuildSubmission snapshots the aggregate for persistence. The base price is replaced by the
// canonical price and variants with a Buy-1 pack take their price fields from it.
func BuildSubmission(p Product) Submission {
	out := Submission{
		ID:             p.ID,
		Title:          p.Title,
		Shape:          p.Shape,
		Price:          CanonicalPrice(p),
		CompareAtPrice: cloneDecimal(p.CompareAtPrice),
		Orderable:      Orderable(p),
	}

	switch p.Shape {
	case enums.ProductShapeSimple:
		out.Simple = &SimpleSubmission{VolumeTiers: p.Simple.Tiers.Clone()}
	case enums.ProductShapeVariable:
		variants := p.Variable.Variants()
		for i := range variants {
			if tier, _, ok := variants[i].Tiers.BuyOne(); ok {
				variants[i].Price = tier.Price
				variants[i].CompareAtPrice = cloneDecimal(tier.CompareAtPrice)
			}
		}
		out.Variable = &VariableSubmission{
			OptionAxes: p.Variable.Axes(),
			Variants:   variants,
		}
	case enums.ProductShapeBundle:
		items := make([]BundleItemSubmission, len(p.Bundle.Items))
		for i, item := range p.Bundle.Items {
			items[i] = BundleItemSubmission{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				PriceOverride: cloneDecimal(item.PriceOverride),
			}
		}
		out.Bundle = &BundleSubmission{
			Items:           items,
			Pricing:         p.Bundle.Pricing,
			BundlePrice:     cloneDecimal(p.Bundle.BundlePrice),
			DiscountPercent: cloneDecimal(p.Bundle.DiscountPercent),
		}
	}
	return out
}
