package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog record with its stock counter. StockQty is only
// mutated through guarded adjustments so it can never go negative.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Category   string    `gorm:"column:category;not null" json:"category"`
	PriceCents int       `gorm:"column:price_cents;not null" json:"price_cents"`
	StockQty   int       `gorm:"column:stock_qty;not null;default:0" json:"stock_qty"`
	ImageRef   *string   `gorm:"column:image_ref" json:"image_ref,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
