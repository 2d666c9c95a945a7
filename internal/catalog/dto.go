package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int       `json:"price_cents"`
	StockQty   int       `json:"stock_qty"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name       string
	Category   string
	PriceCents int
	StockQty   int
	ImageRef   *string
}

// UpdateProductInput holds optional mutation values for a product. Stock is
// deliberately absent; it only moves through AdjustStock.
type UpdateProductInput struct {
	Name       *string
	Category   *string
	PriceCents *int
	ImageRef   *string
}

type imageResolver interface {
	Resolve(ref string) string
}

// NewProductDTO builds a DTO from the persisted model, resolving the stored
// image reference into a client-facing URL.
func NewProductDTO(product *models.Product, images imageResolver) *ProductDTO {
	dto := &ProductDTO{
		ID:         product.ID,
		Name:       product.Name,
		Category:   product.Category,
		PriceCents: product.PriceCents,
		StockQty:   product.StockQty,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
	if product.ImageRef != nil && images != nil {
		dto.ImageURL = images.Resolve(*product.ImageRef)
	}
	return dto
}
