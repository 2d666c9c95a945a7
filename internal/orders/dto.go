package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
)

// OrderLineInput is one requested product line at order creation.
type OrderLineInput struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateOrderInput holds the validated payload to create an order.
type CreateOrderInput struct {
	Lines []OrderLineInput
}

// OrderLineDTO exposes a persisted line with its price snapshot.
type OrderLineDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Qty            int       `json:"qty"`
	UnitPriceCents int       `json:"unit_price_cents"`
}

// OrderDTO represents the ledger payload returned to clients.
type OrderDTO struct {
	ID         uuid.UUID      `json:"id"`
	Status     string         `json:"status"`
	TotalCents int            `json:"total_cents"`
	Lines      []OrderLineDTO `json:"lines"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineDTO{
			ProductID:      line.ProductID,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return &OrderDTO{
		ID:         order.ID,
		Status:     order.Status.String(),
		TotalCents: order.TotalCents,
		Lines:      lines,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
