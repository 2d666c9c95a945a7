package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
)

// Repository owns product persistence, including the guarded stock counter.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves all columns of an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

// List returns all products, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock applies stock_qty += delta as a single guarded UPDATE. The
// guard rejects any delta that would drive the counter negative, so the
// operation stays correct under concurrent callers without a read first.
// Returns the stock value after the adjustment.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_qty + ? >= 0", id, delta).
			Update("stock_qty", gorm.Expr("stock_qty + ?", delta))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Either the product does not exist or the guard failed. A
			// follow-up read disambiguates the two for the error payload.
			product, err := r.WithTx(tx).FindByID(ctx, id)
			if err != nil {
				return err
			}
			return pkgerrors.InsufficientStock(product.ID.String(), -delta, product.StockQty)
		}

		// Read back inside the transaction. The row lock held by the UPDATE
		// keeps concurrent adjusters out until commit, so the value is this
		// call's own result, not a later writer's.
		return tx.Model(&models.Product{}).
			Where("id = ?", id).
			Pluck("stock_qty", &stock).Error
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}
