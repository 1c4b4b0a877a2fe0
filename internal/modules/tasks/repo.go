package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CreateInput struct {
	Title       string
	Category    string
	Priority    string
	AssignedTo  *string
	RelatedType *string
	RelatedID   *string
	DueDate     *time.Time
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (Task, error) {
	return r.create(ctx, r.db, in)
}

// CreateInTx creates a task inside a caller-owned transaction.
func (r *Repo) CreateInTx(ctx context.Context, tx *gorm.DB, in CreateInput) (Task, error) {
	return r.create(ctx, tx, in)
}

func (r *Repo) create(ctx context.Context, db *gorm.DB, in CreateInput) (Task, error) {
	now := time.Now()
	t := Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Status:      StatusPending,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		RelatedType: in.RelatedType,
		RelatedID:   in.RelatedID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Category == "" {
		t.Category = CategoryGeneral
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if err := db.WithContext(ctx).Create(&t).Error; err != nil {
		return Task{}, err
	}
	return t, nil
}

type ListParams struct {
	Status   string
	Category string
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Task
	Total int64
}

func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	base := r.db.WithContext(ctx).Model(&Task{})
	if s := strings.TrimSpace(in.Status); s != "" {
		base = base.Where("status = ?", s)
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		base = base.Where("category = ?", c)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}
	var items []Task
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

type UpdateInput struct {
	Status     *string
	Priority   *string
	AssignedTo *string
	DueDate    *time.Time
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateInput) error {
	updates := map[string]any{"updated_at": time.Now()}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.AssignedTo != nil {
		updates["assigned_to"] = *in.AssignedTo
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}

	res := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
