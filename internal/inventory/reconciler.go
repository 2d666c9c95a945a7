package inventory

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/internal/catalog"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
)

// Reconciler applies the stock deltas implied by an order-status transition.
// Callers run it inside a transaction so a mid-sequence guard failure rolls
// back every delta already applied, never leaving a partial deduction.
type Reconciler struct {
	catalog *catalog.Repository
}

// NewReconciler builds a reconciler over the catalog repository.
func NewReconciler(repo *catalog.Repository) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Reconciler{catalog: repo}, nil
}

// Deduct removes every line's quantity from its product inside tx. The first
// guard failure aborts the whole pass; the caller's rollback undoes the rest.
func (r *Reconciler) Deduct(ctx context.Context, tx *gorm.DB, lines []models.OrderLine) error {
	repo := r.catalog.WithTx(tx)
	for _, line := range orderedByProduct(lines) {
		if _, err := repo.AdjustStock(ctx, line.ProductID, -line.Qty); err != nil {
			return err
		}
	}
	return nil
}

// Restore adds every line's quantity back to its product inside tx.
// Increments always satisfy the stock guard, so failures here are storage
// errors; they are accumulated so every line gets its attempt.
func (r *Reconciler) Restore(ctx context.Context, tx *gorm.DB, lines []models.OrderLine) error {
	repo := r.catalog.WithTx(tx)
	var errs error
	for _, line := range orderedByProduct(lines) {
		if _, err := repo.AdjustStock(ctx, line.ProductID, line.Qty); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("restoring %d units to product %s: %w", line.Qty, line.ProductID, err))
		}
	}
	return errs
}

// orderedByProduct returns a copy sorted by ascending product id so
// concurrent transitions touching overlapping products lock rows in the
// same order.
func orderedByProduct(lines []models.OrderLine) []models.OrderLine {
	out := make([]models.OrderLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}
