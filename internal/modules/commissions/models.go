package commissions

import "time"

const (
	KindNewReferral            = "new_referral"
	KindOrderReferral          = "order_referral"
	KindDistributorFulfillment = "distributor_fulfillment"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

const (
	RelatedOrder = "order"
	RelatedUser  = "user"
)

type Commission struct {
	ID     string `gorm:"type:char(36);primaryKey"`
	UserID string `gorm:"type:char(36);not null;index:ix_commissions_user_id"`
	Kind   string `gorm:"type:varchar(32);not null;uniqueIndex:ux_commissions_related_kind"`

	AmountCents int    `gorm:"not null"`
	Status      string `gorm:"type:varchar(16);not null;default:pending;index:ix_commissions_status"`

	// The unique index across (related_type, related_id, kind) makes the
	// duplicate-accrual guard race-proof rather than advisory.
	RelatedType string `gorm:"type:varchar(16);not null;uniqueIndex:ux_commissions_related_kind"`
	RelatedID   string `gorm:"type:char(36);not null;uniqueIndex:ux_commissions_related_kind"`

	RatePercent float64 `gorm:"type:decimal(5,2);not null"`
	Notes       *string `gorm:"type:varchar(512)"`

	PaidAt    *time.Time `gorm:"type:datetime(3)"`
	CreatedAt time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time  `gorm:"type:datetime(3);not null"`
}

func (Commission) TableName() string { return "commissions" }
