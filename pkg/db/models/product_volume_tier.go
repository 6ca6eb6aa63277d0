package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// ProductVolumeTier stores a pack. VariantID is nil for packs attached to a simple product.
type ProductVolumeTier struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID       `gorm:"column:variant_id;type:uuid"`
	Position       int              `gorm:"column:position;not null"`
	MinQty         int              `gorm:"column:min_qty;not null"`
	MaxQty         *int             `gorm:"column:max_qty"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,4);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,4)"`
	Badge          *enums.PackBadge `gorm:"column:badge;type:pack_badge"`
}
