package users

import "time"

const (
	RoleCustomer    = "customer"
	RoleWholesale   = "wholesale"
	RoleDistributor = "distributor"
	RoleAdmin       = "admin"
)

type User struct {
	ID           string  `gorm:"type:char(36);primaryKey"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash []byte  `gorm:"type:varbinary(72);not null"`
	Role         string  `gorm:"type:varchar(32);not null;default:customer"`
	FirstName    *string `gorm:"type:varchar(100)"`
	LastName     *string `gorm:"type:varchar(100)"`

	// Referral program: every user gets a shareable code; ReferredBy points at
	// the user whose code was used at signup. CommissionRate is the percent
	// paid out on referred orders (also used for distributor fulfillment).
	ReferralCode   string   `gorm:"type:varchar(16);not null;uniqueIndex:ux_users_referral_code"`
	ReferredBy     *string  `gorm:"type:char(36);index:ix_users_referred_by"`
	CommissionRate *float64 `gorm:"type:decimal(5,2)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }
