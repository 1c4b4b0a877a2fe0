package products

import "time"

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

type Product struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex:ux_products_slug"`
	SKU         string `gorm:"type:varchar(64);not null;uniqueIndex:ux_products_sku"`
	Description string `gorm:"type:text"`

	// Pouch attributes surfaced in the catalog.
	Flavor     string `gorm:"type:varchar(64)"`
	StrengthMG int    `gorm:"not null;default:0"`

	PriceCents int    `gorm:"not null"`
	Currency   string `gorm:"type:char(3);not null;default:CAD"`
	Status     string `gorm:"type:varchar(16);not null;default:active"`

	Images []Image `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Product) TableName() string { return "products" }

type Image struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	ProductID  string    `gorm:"type:char(36);not null;index:ix_product_images_product_id"`
	StorageKey string    `gorm:"type:varchar(255);not null"`
	URL        string    `gorm:"type:varchar(512);not null"`
	Position   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
}

func (Image) TableName() string { return "product_images" }
