package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/db/models"
)

// ProductDTO is the catalog view of a saved product returned after submit.
type ProductDTO struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	Shape          string           `json:"shape"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	IsOrderable    bool             `json:"is_orderable"`
	OptionAxes     int              `json:"option_axes"`
	Variants       int              `json:"variants"`
	VolumeTiers    int              `json:"volume_tiers"`
	BundleItems    int              `json:"bundle_items"`
	Created        bool             `json:"created"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product, created bool) *ProductDTO {
	tiers := len(product.VolumeTiers)
	for _, variant := range product.Variants {
		tiers += len(variant.VolumeTiers)
	}
	return &ProductDTO{
		ID:             product.ID,
		Title:          product.Title,
		Shape:          product.Shape.String(),
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		IsOrderable:    product.IsOrderable,
		OptionAxes:     len(product.OptionAxes),
		Variants:       len(product.Variants),
		VolumeTiers:    tiers,
		BundleItems:    len(product.BundleItems),
		Created:        created,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
