package wholesale

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Application struct {
	ID     string `gorm:"type:char(36);primaryKey"`
	UserID string `gorm:"type:char(36);not null;index:ix_wholesale_applications_user_id"`

	CompanyName    string `gorm:"type:varchar(255);not null"`
	BusinessNumber string `gorm:"type:varchar(64);not null"`
	ContactPhone   string `gorm:"type:varchar(32)"`
	Message        string `gorm:"type:text"`

	Status     string  `gorm:"type:varchar(16);not null;default:pending;index:ix_wholesale_applications_status"`
	ReviewNote *string `gorm:"type:varchar(512)"`
	ReviewedBy *string `gorm:"type:char(36)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Application) TableName() string { return "wholesale_applications" }
