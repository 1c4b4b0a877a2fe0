package checkout

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
)

type StockLine struct {
	ProductID string
	Qty       int
}

// DeductStockInTx runs inside a caller-owned transaction (no nesting); it is
// called from within the order-creation transaction. Rows are locked in
// deterministic order to avoid deadlocks between concurrent checkouts.
func DeductStockInTx(ctx context.Context, tx *gorm.DB, location string, lines []StockLine) error {
	if len(lines) == 0 {
		return nil
	}

	want := make(map[string]int, len(lines))
	for _, ln := range lines {
		q := ln.Qty
		if q < 1 {
			q = 1
		}
		want[ln.ProductID] += q
	}

	ids := make([]string, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows []inventory.Level
	// SELECT ... FOR UPDATE
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ? AND location = ?", ids, location).
		Order("product_id ASC").
		Find(&rows).Error; err != nil {
		return err
	}

	avail := make(map[string]int, len(rows))
	for _, r := range rows {
		avail[r.ProductID] = r.Quantity
	}

	var oos []OutOfStockItem
	for _, id := range ids {
		req := want[id]
		av, ok := avail[id]
		if !ok || av < req {
			oos = append(oos, OutOfStockItem{ProductID: id, Requested: req, Available: av})
		}
	}
	if len(oos) > 0 {
		return &OutOfStockError{Items: oos}
	}

	for _, id := range ids {
		req := want[id]
		res := tx.WithContext(ctx).
			Model(&inventory.Level{}).
			Where("product_id = ? AND location = ? AND quantity >= ?", id, location, req).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity - ?", req),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return &OutOfStockError{Items: []OutOfStockItem{{ProductID: id, Requested: req, Available: 0}}}
		}
	}

	return nil
}

// WithTxRetry retries a transaction on deadlock / lock wait timeout.
func WithTxRetry(ctx context.Context, db *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if dberr.IsRetryable(err) && i < attempts-1 {
			time.Sleep(time.Duration(50*(i+1)) * time.Millisecond)
			continue
		}
		return err
	}
	return lastErr
}
