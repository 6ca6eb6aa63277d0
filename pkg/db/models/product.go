package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// Product is the catalog row for a configured product. Child rows hold the section
// that belongs to Shape; sections of inactive shapes are never stored.
type Product struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title                 string               `gorm:"column:title;not null"`
	Shape                 enums.ProductShape   `gorm:"column:shape;type:product_shape;not null"`
	Price                 decimal.Decimal      `gorm:"column:price;type:numeric(12,4);not null"`
	CompareAtPrice        *decimal.Decimal     `gorm:"column:compare_at_price;type:numeric(12,4)"`
	BundlePricing         *enums.BundlePricing `gorm:"column:bundle_pricing;type:bundle_pricing"`
	BundlePrice           *decimal.Decimal     `gorm:"column:bundle_price;type:numeric(12,4)"`
	BundleDiscountPercent *decimal.Decimal     `gorm:"column:bundle_discount_percent;type:numeric(5,2)"`
	IsOrderable           bool                 `gorm:"column:is_orderable;not null"`
	OptionAxes            []ProductOptionAxis  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants              []ProductVariant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	VolumeTiers           []ProductVolumeTier  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BundleItems           []ProductBundleItem  `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
