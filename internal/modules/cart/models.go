package cart

import "time"

const (
	StatusOpen       = "open"
	StatusCheckedOut = "checked_out"
)

type Cart struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:char(36);not null;index:ix_carts_user_id"`
	Status    string    `gorm:"type:varchar(16);not null;default:open"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	CartID    string    `gorm:"type:char(36);not null;uniqueIndex:ux_cart_items_cart_product"`
	ProductID string    `gorm:"type:char(36);not null;uniqueIndex:ux_cart_items_cart_product"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (CartItem) TableName() string { return "cart_items" }
