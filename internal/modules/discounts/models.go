package discounts

import "time"

const (
	KindPercentage  = "percentage"
	KindFixedAmount = "fixed_amount"
)

type DiscountCode struct {
	ID   string `gorm:"type:char(36);primaryKey"`
	Code string `gorm:"type:varchar(64);not null;uniqueIndex:ux_discount_codes_code"`
	Kind string `gorm:"type:varchar(16);not null"`

	// PercentOff applies to percentage codes; AmountOffCents to fixed codes.
	PercentOff     float64 `gorm:"type:decimal(5,2);not null;default:0"`
	AmountOffCents int     `gorm:"not null;default:0"`

	MinOrderCents    int  `gorm:"not null;default:0"`
	MaxDiscountCents *int `gorm:""`

	StartsAt time.Time  `gorm:"type:datetime(3);not null"`
	EndsAt   *time.Time `gorm:"type:datetime(3)"`

	UsageLimit *int `gorm:""`
	TimesUsed  int  `gorm:"not null;default:0"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (DiscountCode) TableName() string { return "discount_codes" }
