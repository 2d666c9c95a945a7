package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
)

// Order is created once in Pending; status transitions are its only
// mutation. StockDeducted records whether the Completed deduction has been
// applied, which is what makes cancellation restores conservation-safe.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'Pending'" json:"status"`
	TotalCents    int               `gorm:"column:total_cents;not null" json:"total_cents"`
	StockDeducted bool              `gorm:"column:stock_deducted;not null;default:false" json:"-"`
	Lines         []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
