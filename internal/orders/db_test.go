package orders

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/internal/catalog"
	"github.com/stockroomlabs/stockroom-backend/internal/inventory"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL DEFAULT 0,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  image_ref TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL DEFAULT 'Pending',
  total_cents INTEGER NOT NULL DEFAULT 0,
  stock_deducted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL DEFAULT 0
);`

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(ledgerSchema).Error)
	return conn
}

// setupLedgerFileDB backs the database with a file and makes transactions
// take the write lock up front, so concurrent transitions queue on the busy
// handler instead of deadlocking mid-upgrade.
func setupLedgerFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000&_txlock=immediate"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(ledgerSchema).Error)
	return conn
}

type nullActivity struct{}

func (nullActivity) Record(context.Context, string) {}

func newLedgerService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	catalogRepo := catalog.NewRepository(conn)
	reconciler, err := inventory.NewReconciler(catalogRepo)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn), catalogRepo, reconciler, nullActivity{}, nil)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, priceCents, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   "general",
		PriceCents: priceCents,
		StockQty:   stock,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func productStock(t *testing.T, conn *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var stock int
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", id).Pluck("stock_qty", &stock).Error)
	return stock
}
