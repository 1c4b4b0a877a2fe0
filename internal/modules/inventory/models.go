package inventory

import "time"

// DefaultLocation is where cancelled orders restock to.
const DefaultLocation = "Main Warehouse"

type Level struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	ProductID string    `gorm:"type:char(36);not null;uniqueIndex:ux_inventory_product_location"`
	Location  string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_inventory_product_location"`
	Quantity  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Level) TableName() string { return "inventory_levels" }
