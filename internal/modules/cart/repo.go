package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// GetOrCreateOpenCart returns the user's open cart, creating one if needed.
func (r *Repo) GetOrCreateOpenCart(ctx context.Context, userID string) (Cart, error) {
	var c Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, StatusOpen).
		Order("updated_at DESC").
		First(&c).Error
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Cart{}, err
	}

	now := time.Now()
	c = Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (r *Repo) Items(ctx context.Context, cartID string) ([]CartItem, error) {
	var items []CartItem
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&items, "cart_id = ?", cartID).Error
	return items, err
}

// SetItem upserts the quantity for a product in the cart; qty <= 0 removes it.
func (r *Repo) SetItem(ctx context.Context, cartID, productID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(ctx, cartID, productID)
	}

	now := time.Now()
	res := r.db.WithContext(ctx).Model(&CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{"quantity": qty, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	item := CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Create(&item).Error
}

// AddItem increments the quantity for a product, inserting the row if missing.
func (r *Repo) AddItem(ctx context.Context, cartID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	item := CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *Repo) RemoveItem(ctx context.Context, cartID, productID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&CartItem{}).Error
}

// CloseInTx marks the cart checked out inside an existing transaction.
func (r *Repo) CloseInTx(ctx context.Context, tx *gorm.DB, cartID string) error {
	return tx.WithContext(ctx).Model(&Cart{}).
		Where("id = ? AND status = ?", cartID, StatusOpen).
		Updates(map[string]any{"status": StatusCheckedOut, "updated_at": time.Now()}).Error
}
