package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderLine references a catalog product and snapshots the unit price at
// order-creation time. Product attributes are resolved through the catalog
// at read time, never denormalized here.
type OrderLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Qty            int       `gorm:"column:qty;not null" json:"qty"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
