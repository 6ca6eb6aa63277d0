package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductBundleItem links a bundle product to one of its component products.
type ProductBundleItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BundleID      uuid.UUID        `gorm:"column:bundle_id;type:uuid;not null"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Position      int              `gorm:"column:position;not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	PriceOverride *decimal.Decimal `gorm:"column:price_override;type:numeric(12,4)"`
}
