package configurator

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// VolumeTier is a pack: Price is the total charged for MinQuantity units.
// MaxQuantity mirrors MinQuantity because a pack is a single fixed quantity.
type VolumeTier struct {
	MinQuantity    int              `json:"min_quantity"`
	MaxQuantity    *int             `json:"max_quantity,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Badge          *enums.PackBadge `json:"badge,omitempty"`
}

// TierPatch carries optional tier mutations. Clear* flags reset nullable fields.
type TierPatch struct {
	MinQuantity         *int
	Price               *decimal.Decimal
	CompareAtPrice      *decimal.Decimal
	ClearCompareAtPrice bool
	Badge               *enums.PackBadge
	ClearBadge          bool
}

// PackWarning flags a pack priced above buying the same number of singles.
type PackWarning struct {
	VariantIndex *int            `json:"variant_index,omitempty"`
	TierIndex    int             `json:"tier_index"`
	MinQuantity  int             `json:"min_quantity"`
	PackPrice    decimal.Decimal `json:"pack_price"`
	SinglesPrice decimal.Decimal `json:"singles_price"`
}

// TierSet is an ordered list of packs owned by a simple product or a single variant.
type TierSet []VolumeTier

func (t VolumeTier) clone() VolumeTier {
	out := t
	out.MaxQuantity = cloneInt(t.MaxQuantity)
	out.CompareAtPrice = cloneDecimal(t.CompareAtPrice)
	if t.Badge != nil {
		badge := *t.Badge
		out.Badge = &badge
	}
	return out
}

// quantity is the pack size used for division; zero and negative sizes count as one.
func (t VolumeTier) quantity() int {
	if t.MinQuantity <= 0 {
		return 1
	}
	return t.MinQuantity
}

func (t VolumeTier) upperQuantity() int {
	if t.MaxQuantity != nil {
		return *t.MaxQuantity
	}
	return t.MinQuantity
}

// IsBuyOne reports whether the tier sells exactly one unit.
func (t VolumeTier) IsBuyOne() bool {
	if t.MinQuantity != 1 {
		return false
	}
	return t.MaxQuantity == nil || *t.MaxQuantity == t.MinQuantity
}

// UnitPrice is the unrounded per-unit price of the pack.
func (t VolumeTier) UnitPrice() decimal.Decimal {
	return t.Price.Div(decimal.NewFromInt(int64(t.quantity())))
}

// Clone deep-copies the set so it can be attached to another owner.
func (s TierSet) Clone() TierSet {
	out := make(TierSet, len(s))
	for i, tier := range s {
		out[i] = tier.clone()
	}
	return out
}

// Add appends a pack starting right after the previous pack's quantity.
func (s TierSet) Add() TierSet {
	next := 1
	if len(s) > 0 {
		next = s[len(s)-1].upperQuantity() + 1
	}
	out := s.Clone()
	return append(out, VolumeTier{
		MinQuantity: next,
		MaxQuantity: intPtr(next),
		Price:       decimal.Zero,
	})
}

// Update applies patch to the tier at index. Invalid patches leave the set untouched.
func (s TierSet) Update(index int, patch TierPatch) (TierSet, bool) {
	if index < 0 || index >= len(s) {
		return s, false
	}
	if patch.MinQuantity != nil && *patch.MinQuantity < 1 {
		return s, false
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return s, false
	}
	if patch.CompareAtPrice != nil && patch.CompareAtPrice.IsNegative() {
		return s, false
	}
	if patch.Badge != nil && !patch.Badge.IsValid() {
		return s, false
	}

	out := s.Clone()
	tier := &out[index]
	applied := false
	if patch.MinQuantity != nil {
		tier.MinQuantity = *patch.MinQuantity
		tier.MaxQuantity = intPtr(*patch.MinQuantity)
		applied = true
	}
	if patch.Price != nil {
		tier.Price = *patch.Price
		applied = true
	}
	if patch.ClearCompareAtPrice {
		tier.CompareAtPrice = nil
		applied = true
	} else if patch.CompareAtPrice != nil {
		tier.CompareAtPrice = cloneDecimal(patch.CompareAtPrice)
		applied = true
	}
	if patch.ClearBadge {
		tier.Badge = nil
		applied = true
	} else if patch.Badge != nil {
		badge := *patch.Badge
		tier.Badge = &badge
		applied = true
	}
	if !applied {
		return s, false
	}
	return out, true
}

// Remove drops the tier at index. Remaining quantities are not renumbered.
func (s TierSet) Remove(index int) (TierSet, bool) {
	if index < 0 || index >= len(s) {
		return s, false
	}
	out := make(TierSet, 0, len(s)-1)
	for i, tier := range s {
		if i == index {
			continue
		}
		out = append(out, tier.clone())
	}
	return out, true
}

// BuyOne returns the first single-unit tier.
func (s TierSet) BuyOne() (VolumeTier, int, bool) {
	for i, tier := range s {
		if tier.IsBuyOne() {
			return tier, i, true
		}
	}
	return VolumeTier{}, -1, false
}

// Warnings lists packs that cost more than the same quantity bought as singles.
// The check is advisory and never blocks a submit.
func (s TierSet) Warnings() []PackWarning {
	buyOne, _, ok := s.BuyOne()
	if !ok {
		return nil
	}
	var warnings []PackWarning
	for i, tier := range s {
		if tier.MinQuantity <= 1 {
			continue
		}
		singles := buyOne.Price.Mul(decimal.NewFromInt(int64(tier.MinQuantity)))
		if tier.Price.GreaterThan(singles) {
			warnings = append(warnings, PackWarning{
				TierIndex:    i,
				MinQuantity:  tier.MinQuantity,
				PackPrice:    tier.Price,
				SinglesPrice: singles,
			})
		}
	}
	return warnings
}

func intPtr(v int) *int {
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
