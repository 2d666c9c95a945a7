package activity

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

func setupActivityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS activity_logs (
  id TEXT PRIMARY KEY,
  action TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newActivityService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), logg)
	require.NoError(t, err)
	return svc
}

func TestRecordAndList(t *testing.T) {
	conn := setupActivityTestDB(t)
	svc := newActivityService(t, conn)
	ctx := context.Background()

	svc.Record(ctx, "Product \"Gloves\" added")
	svc.Record(ctx, "Order placed")
	svc.Record(ctx, "   ")

	entries, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	conn := setupActivityTestDB(t)
	svc := newActivityService(t, conn)
	ctx := context.Background()

	// Breaking the table makes every append fail; Record must not panic or
	// surface the error.
	require.NoError(t, conn.Exec("DROP TABLE activity_logs").Error)
	svc.Record(ctx, "Order placed")
}

func TestListOrderingAndLimit(t *testing.T) {
	conn := setupActivityTestDB(t)
	repo := NewRepository(conn)
	svc := newActivityService(t, conn)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		entry := &models.ActivityLog{
			Action:    fmt.Sprintf("action-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Append(ctx, entry))
	}

	entries, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "action-2", entries[0].Action)
	assert.Equal(t, "action-1", entries[1].Action)
}
