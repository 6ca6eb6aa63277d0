package configurator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// BundleItem is one product sold inside a bundle. ReferencePrice is the referenced
// product's own price, captured when the item enters the session.
type BundleItem struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Quantity       int              `json:"quantity"`
	PriceOverride  *decimal.Decimal `json:"price_override,omitempty"`
	ReferencePrice decimal.Decimal  `json:"reference_price"`
}

// Bundle composes several products under one pricing strategy.
type Bundle struct {
	Items           []BundleItem        `json:"items"`
	Pricing         enums.BundlePricing `json:"pricing"`
	BundlePrice     *decimal.Decimal    `json:"bundle_price,omitempty"`
	DiscountPercent *decimal.Decimal    `json:"discount_percent,omitempty"`
}

// EffectiveUnitPrice is the override when set, otherwise the referenced product's price.
func (i BundleItem) EffectiveUnitPrice() decimal.Decimal {
	if i.PriceOverride != nil {
		return *i.PriceOverride
	}
	return i.ReferencePrice
}

func (i BundleItem) clone() BundleItem {
	out := i
	out.PriceOverride = cloneDecimal(i.PriceOverride)
	return out
}

// NewBundle normalises a persisted bundle: duplicate product ids keep their first entry,
// quantities below one become one and an unknown strategy falls back to fixed.
func NewBundle(items []BundleItem, pricing enums.BundlePricing, bundlePrice, discountPercent *decimal.Decimal) Bundle {
	b := Bundle{
		Items:           make([]BundleItem, 0, len(items)),
		Pricing:         pricing,
		BundlePrice:     cloneDecimal(bundlePrice),
		DiscountPercent: cloneDecimal(discountPercent),
	}
	if !b.Pricing.IsValid() {
		b.Pricing = enums.BundlePricingFixed
	}
	for _, item := range items {
		if !b.AddItem(item.ProductID, item.Quantity, item.ReferencePrice) {
			continue
		}
		if item.PriceOverride != nil {
			b.SetItemOverride(item.ProductID, item.PriceOverride)
		}
	}
	return b
}

// Clone deep-copies the bundle.
func (b Bundle) Clone() Bundle {
	out := Bundle{
		Items:           make([]BundleItem, len(b.Items)),
		Pricing:         b.Pricing,
		BundlePrice:     cloneDecimal(b.BundlePrice),
		DiscountPercent: cloneDecimal(b.DiscountPercent),
	}
	for i, item := range b.Items {
		out.Items[i] = item.clone()
	}
	return out
}

func (b *Bundle) indexOf(productID uuid.UUID) int {
	for i, item := range b.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds a product to the bundle. Adding a product already present is a no-op.
func (b *Bundle) AddItem(productID uuid.UUID, quantity int, referencePrice decimal.Decimal) bool {
	if productID == uuid.Nil || b.indexOf(productID) >= 0 {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}
	if referencePrice.IsNegative() {
		referencePrice = decimal.Zero
	}
	b.Items = append(b.Items, BundleItem{
		ProductID:      productID,
		Quantity:       quantity,
		ReferencePrice: referencePrice,
	})
	return true
}

// RemoveItem drops the product from the bundle.
func (b *Bundle) RemoveItem(productID uuid.UUID) bool {
	idx := b.indexOf(productID)
	if idx < 0 {
		return false
	}
	b.Items = append(b.Items[:idx:idx], b.Items[idx+1:]...)
	return true
}

// SetItemQuantity changes how many units of the product the bundle contains.
func (b *Bundle) SetItemQuantity(productID uuid.UUID, quantity int) bool {
	idx := b.indexOf(productID)
	if idx < 0 || quantity < 1 {
		return false
	}
	b.Items[idx].Quantity = quantity
	return true
}

// SetItemOverride sets or, with nil, clears the per-item unit price override.
func (b *Bundle) SetItemOverride(productID uuid.UUID, price *decimal.Decimal) bool {
	idx := b.indexOf(productID)
	if idx < 0 {
		return false
	}
	if price != nil && price.IsNegative() {
		return false
	}
	b.Items[idx].PriceOverride = cloneDecimal(price)
	return true
}

// SetItemReferencePrice refreshes the captured price of the referenced product.
func (b *Bundle) SetItemReferencePrice(productID uuid.UUID, price decimal.Decimal) bool {
	idx := b.indexOf(productID)
	if idx < 0 || price.IsNegative() {
		return false
	}
	b.Items[idx].ReferencePrice = price
	return true
}

// SetPricing switches the bundle pricing strategy.
func (b *Bundle) SetPricing(pricing enums.BundlePricing) bool {
	if !pricing.IsValid() {
		return false
	}
	b.Pricing = pricing
	return true
}

// SetBundlePrice sets or clears the admin-set total used by fixed pricing.
func (b *Bundle) SetBundlePrice(price *decimal.Decimal) bool {
	if price != nil && price.IsNegative() {
		return false
	}
	b.BundlePrice = cloneDecimal(price)
	return true
}

// SetDiscountPercent sets or clears the percentage used by discounted pricing.
func (b *Bundle) SetDiscountPercent(percent *decimal.Decimal) bool {
	if percent != nil && (percent.IsNegative() || percent.GreaterThan(hundred)) {
		return false
	}
	b.DiscountPercent = cloneDecimal(percent)
	return true
}

// Subtotal is the sum of each item's effective unit price times its quantity.
func (b Bundle) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
