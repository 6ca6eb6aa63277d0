package enums

import "fmt"

// ProductShape selects which configuration section of a product is authoritative.
type ProductShape string

const (
	ProductShapeSimple   ProductShape = "simple"
	ProductShapeVariable ProductShape = "variable"
	ProductShapeBundle   ProductShape = "bundle"
)

var validProductShapes = []ProductShape{
	ProductShapeSimple,
	ProductShapeVariable,
	ProductShapeBundle,
}

// String implements fmt.Stringer.
func (s ProductShape) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductShape.
func (s ProductShape) IsValid() bool {
	for _, candidate := range validProductShapes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductShape converts raw input into a ProductShape.
func ParseProductShape(value string) (ProductShape, error) {
	for _, candidate := range validProductShapes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product shape %q", value)
}

// BundlePricing is the strategy used to price a bundle product.
type BundlePricing string

const (
	BundlePricingFixed      BundlePricing = "fixed"
	BundlePricingSum        BundlePricing = "sum"
	BundlePricingDiscounted BundlePricing = "discounted"
)

var validBundlePricings = []BundlePricing{
	BundlePricingFixed,
	BundlePricingSum,
	BundlePricingDiscounted,
}

// String implements fmt.Stringer.
func (p BundlePricing) String() string {
	return string(p)
}

// IsValid reports whether the value is a known BundlePricing.
func (p BundlePricing) IsValid() bool {
	for _, candidate := range validBundlePricings {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseBundlePricing converts raw input into a BundlePricing.
func ParseBundlePricing(value string) (BundlePricing, error) {
	for _, candidate := range validBundlePricings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle pricing %q", value)
}
