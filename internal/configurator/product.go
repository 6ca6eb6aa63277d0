// Package configurator keeps a product's option axes, variant matrix, packs and bundle
// composition consistent while they are edited, and derives the product's canonical price.
//
// All state lives in memory and is owned by a single edit session. Mutations that would
// break an invariant are rejected by returning false and leaving the aggregate unchanged.
package configurator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// Product is the aggregate edited in one session. Only the section matching Shape is
// authoritative; the others are kept so switching shape back restores earlier work.
type Product struct {
	ID             uuid.UUID          `json:"id"`
	Title          string             `json:"title"`
	Shape          enums.ProductShape `json:"shape"`
	Price          decimal.Decimal    `json:"price"`
	CompareAtPrice *decimal.Decimal   `json:"compare_at_price,omitempty"`
	Simple         SimpleConfig       `json:"simple"`
	Variable       Matrix             `json:"variable"`
	Bundle         Bundle             `json:"bundle"`
}

// SimpleConfig holds the packs attached directly to a simple product.
type SimpleConfig struct {
	Tiers TierSet `json:"volume_tiers"`
}

// NewProduct returns an empty aggregate for a new product of the given shape.
func NewProduct(shape enums.ProductShape) Product {
	if !shape.IsValid() {
		shape = enums.ProductShapeSimple
	}
	return Product{
		ID:     uuid.New(),
		Shape:  shape,
		Price:  decimal.Zero,
		Simple: SimpleConfig{Tiers: TierSet{}},
		Bundle: Bundle{Items: []BundleItem{}, Pricing: enums.BundlePricingFixed},
	}
}

// Clone deep-copies the aggregate.
func (p Product) Clone() Product {
	out := p
	out.CompareAtPrice = cloneDecimal(p.CompareAtPrice)
	out.Simple = SimpleConfig{Tiers: p.Simple.Tiers.Clone()}
	out.Variable = p.Variable.Clone()
	out.Bundle = p.Bundle.Clone()
	return out
}

// SetShape switches the active shape without clearing the other sections.
func (p *Product) SetShape(shape enums.ProductShape) bool {
	if !shape.IsValid() || shape == p.Shape {
		return false
	}
	p.Shape = shape
	return true
}

// SetTitle renames the product.
func (p *Product) SetTitle(title string) bool {
	if title == "" || title == p.Title {
		return false
	}
	p.Title = title
	return true
}

// SetPrice sets the base price.
func (p *Product) SetPrice(price decimal.Decimal) bool {
	if price.IsNegative() {
		return false
	}
	p.Price = price
	return true
}

// SetCompareAtPrice sets or, with nil, clears the base compare-at price.
func (p *Product) SetCompareAtPrice(price *decimal.Decimal) bool {
	if price != nil && price.IsNegative() {
		return false
	}
	p.CompareAtPrice = cloneDecimal(price)
	return true
}

// AddSimpleTier appends a pack to a simple product.
func (p *Product) AddSimpleTier() bool {
	p.Simple.Tiers = p.Simple.Tiers.Add()
	return true
}

// UpdateSimpleTier patches one pack of a simple product.
func (p *Product) UpdateSimpleTier(index int, patch TierPatch) bool {
	tiers, ok := p.Simple.Tiers.Update(index, patch)
	if !ok {
		return false
	}
	p.Simple.Tiers = tiers
	return true
}

// RemoveSimpleTier deletes one pack of a simple product.
func (p *Product) RemoveSimpleTier(index int) bool {
	tiers, ok := p.Simple.Tiers.Remove(index)
	if !ok {
		return false
	}
	p.Simple.Tiers = tiers
	return true
}
