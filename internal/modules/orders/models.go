package orders

import "time"

type Order struct {
	ID     string `gorm:"type:char(36);primaryKey"`
	UserID string `gorm:"type:char(36);not null;index:ix_orders_user_id"`

	Currency      string `gorm:"type:char(3);not null;default:CAD"`
	SubtotalCents int    `gorm:"not null"`
	ShippingCents int    `gorm:"not null"`
	TaxCents      int    `gorm:"not null"`
	DiscountCents int    `gorm:"not null;default:0"`
	TotalCents    int    `gorm:"not null"`

	// Discount snapshot: at most one code per order.
	DiscountCodeID *string `gorm:"type:char(36)"`
	DiscountCode   *string `gorm:"type:varchar(64)"`

	Status        string `gorm:"type:varchar(32);not null;index:ix_orders_status"`
	PaymentStatus string `gorm:"type:varchar(32);not null;default:unpaid"`
	PaymentMethod string `gorm:"type:varchar(32);not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID             string    `gorm:"type:char(36);primaryKey"`
	OrderID        string    `gorm:"type:char(36);not null;index:ix_order_items_order_id"`
	ProductID      string    `gorm:"type:char(36);not null;index:ix_order_items_product_id"`
	ProductName    string    `gorm:"type:varchar(255);not null"`
	SKU            string    `gorm:"type:varchar(64);not null"`
	Quantity       int       `gorm:"not null"`
	UnitPriceCents int       `gorm:"not null"`
	LineTotalCents int       `gorm:"not null"`
	Currency       string    `gorm:"type:char(3);not null;default:CAD"`
	CreatedAt      time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderEvent is the audit trail for status changes and notable actions.
type OrderEvent struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	OrderID     string    `gorm:"type:char(36);not null;index:ix_order_events_order_id"`
	ActorUserID string    `gorm:"type:char(36);not null"`
	Action      string    `gorm:"type:varchar(32);not null"`
	FromStatus  string    `gorm:"type:varchar(32);not null"`
	ToStatus    string    `gorm:"type:varchar(32);not null"`
	Note        *string   `gorm:"type:varchar(512)"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderEvent) TableName() string { return "order_events" }

// SideEffectFailure records a best-effort side effect that failed after a
// status transition committed, so it can be reconciled later instead of
// being lost in the logs.
type SideEffectFailure struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	OrderID   string    `gorm:"type:char(36);not null;index:ix_side_effect_failures_order_id"`
	Effect    string    `gorm:"type:varchar(64);not null"`
	Detail    string    `gorm:"type:varchar(512)"`
	Error     string    `gorm:"type:varchar(512);not null"`
	Resolved  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (SideEffectFailure) TableName() string { return "side_effect_failures" }
