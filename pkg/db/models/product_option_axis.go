package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductOptionAxis stores one named axis of a variable product in display order.
type ProductOptionAxis struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null"`
	Position  int            `gorm:"column:position;not null"`
	Name      string         `gorm:"column:name;not null"`
	Values    pq.StringArray `gorm:"column:values;type:text[];not null"`
}
