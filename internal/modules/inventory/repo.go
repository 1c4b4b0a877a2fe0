package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) List(ctx context.Context, page, size int) ([]Level, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 30
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Level{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []Level
	err := r.db.WithContext(ctx).
		Order("product_id ASC, location ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error
	return items, total, err
}

func (r *Repo) Get(ctx context.Context, productID, location string) (Level, error) {
	var lv Level
	err := r.db.WithContext(ctx).First(&lv, "product_id = ? AND location = ?", productID, location).Error
	return lv, err
}

// Adjust applies a delta as a single atomic statement. Negative deltas are
// guarded so the quantity can never go below zero; zero rows affected on a
// decrement means insufficient stock.
func (r *Repo) Adjust(ctx context.Context, productID, location string, delta int) error {
	return r.adjust(ctx, r.db, productID, location, delta)
}

// AdjustInTx is Adjust running inside a caller-owned transaction.
func (r *Repo) AdjustInTx(ctx context.Context, tx *gorm.DB, productID, location string, delta int) error {
	return r.adjust(ctx, tx, productID, location, delta)
}

func (r *Repo) adjust(ctx context.Context, db *gorm.DB, productID, location string, delta int) error {
	if delta == 0 {
		return nil
	}
	now := time.Now()

	q := db.WithContext(ctx).Model(&Level{}).
		Where("product_id = ? AND location = ?", productID, location)
	if delta < 0 {
		q = q.Where("quantity >= ?", -delta)
	}
	res := q.Updates(map[string]any{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if delta < 0 {
		return ErrInsufficientStock
	}

	// No row yet for this product/location: create one holding the increment.
	lv := Level{
		ID:        uuid.NewString(),
		ProductID: productID,
		Location:  location,
		Quantity:  delta,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.WithContext(ctx).Create(&lv).Error
}
