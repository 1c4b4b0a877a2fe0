package fulfillment

import "time"

const (
	StatusAssigned  = "assigned"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
)

// Assignment hands an order to a distributor for fulfillment. One
// assignment per order.
type Assignment struct {
	ID            string     `gorm:"type:char(36);primaryKey"`
	OrderID       string     `gorm:"type:char(36);not null;uniqueIndex:ux_fulfillments_order_id"`
	DistributorID string     `gorm:"type:char(36);not null;index:ix_fulfillments_distributor_id"`
	Status        string     `gorm:"type:varchar(16);not null;default:assigned"`
	CompletedAt   *time.Time `gorm:"type:datetime(3)"`
	CreatedAt     time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt     time.Time  `gorm:"type:datetime(3);not null"`
}

func (Assignment) TableName() string { return "fulfillment_assignments" }
