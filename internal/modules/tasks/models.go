package tasks

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDeferred   = "deferred"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	CategoryPayout  = "payout"
	CategoryRefund  = "refund"
	CategoryOrder   = "order"
	CategoryGeneral = "general"
)

type Task struct {
	ID          string     `gorm:"type:char(36);primaryKey"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Category    string     `gorm:"type:varchar(32);not null;default:general"`
	Status      string     `gorm:"type:varchar(32);not null;default:pending;index:ix_tasks_status"`
	Priority    string     `gorm:"type:varchar(16);not null;default:medium"`
	AssignedTo  *string    `gorm:"type:char(36);index:ix_tasks_assigned_to"`
	RelatedType *string    `gorm:"type:varchar(32)"`
	RelatedID   *string    `gorm:"type:char(36)"`
	DueDate     *time.Time `gorm:"type:datetime(3)"`
	CreatedAt   time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time  `gorm:"type:datetime(3);not null"`
}

func (Task) TableName() string { return "tasks" }
