package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-configurator/pkg/enums"
)

// ProductVariant stores one sellable axis combination. OptionValues follows the
// position order of the product's option axes.
type ProductVariant struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Position          int                 `gorm:"column:position;not null"`
	OptionValues      pq.StringArray      `gorm:"column:option_values;type:text[];not null"`
	SKU               *string             `gorm:"column:sku"`
	Price             decimal.Decimal     `gorm:"column:price;type:numeric(12,4);not null"`
	CompareAtPrice    *decimal.Decimal    `gorm:"column:compare_at_price;type:numeric(12,4)"`
	Badge             *enums.PackBadge    `gorm:"column:badge;type:pack_badge"`
	StockQuantity     *int                `gorm:"column:stock_quantity"`
	LowStockThreshold *int                `gorm:"column:low_stock_threshold"`
	AllowBackorder    bool                `gorm:"column:allow_backorder;not null"`
	VolumeTiers       []ProductVolumeTier `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}
