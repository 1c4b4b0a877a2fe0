package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Level{}))
	return db
}

func TestAdjust(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	// First increment creates the row.
	require.NoError(t, repo.Adjust(ctx, "p1", DefaultLocation, 10))
	lv, err := repo.Get(ctx, "p1", DefaultLocation)
	require.NoError(t, err)
	assert.Equal(t, 10, lv.Quantity)

	// Deltas accumulate.
	require.NoError(t, repo.Adjust(ctx, "p1", DefaultLocation, 5))
	require.NoError(t, repo.Adjust(ctx, "p1", DefaultLocation, -3))
	lv, err = repo.Get(ctx, "p1", DefaultLocation)
	require.NoError(t, err)
	assert.Equal(t, 12, lv.Quantity)

	// Zero delta is a no-op.
	require.NoError(t, repo.Adjust(ctx, "p1", DefaultLocation, 0))

	// Locations are independent.
	require.NoError(t, repo.Adjust(ctx, "p1", "Backroom", 2))
	lv, err = repo.Get(ctx, "p1", "Backroom")
	require.NoError(t, err)
	assert.Equal(t, 2, lv.Quantity)
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Adjust(ctx, "p1", DefaultLocation, 4))

	err := repo.Adjust(ctx, "p1", DefaultLocation, -5)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Decrement against a missing row fails the same way.
	err = repo.Adjust(ctx, "ghost", DefaultLocation, -1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	lv, err := repo.Get(ctx, "p1", DefaultLocation)
	require.NoError(t, err)
	assert.Equal(t, 4, lv.Quantity)
}
