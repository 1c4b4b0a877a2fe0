package wholesale

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
)

var (
	ErrOpenApplication = errors.New("an application is already pending for this user")
	ErrNotReviewable   = errors.New("application is not pending review")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

type ApplyInput struct {
	UserID         string
	CompanyName    string
	BusinessNumber string
	ContactPhone   string
	Message        string
}

func (s *Service) Apply(ctx context.Context, in ApplyInput) (Application, error) {
	var open int64
	err := s.db.WithContext(ctx).Model(&Application{}).
		Where("user_id = ? AND status = ?", in.UserID, StatusPending).
		Count(&open).Error
	if err != nil {
		return Application{}, err
	}
	if open > 0 {
		return Application{}, ErrOpenApplication
	}

	now := time.Now()
	app := Application{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		CompanyName:    strings.TrimSpace(in.CompanyName),
		BusinessNumber: strings.TrimSpace(in.BusinessNumber),
		ContactPhone:   strings.TrimSpace(in.ContactPhone),
		Message:        strings.TrimSpace(in.Message),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return Application{}, err
	}
	return app, nil
}

type ListParams struct {
	Status   string
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Application
	Total int64
}

func (s *Service) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	base := s.db.WithContext(ctx).Model(&Application{})
	if st := strings.TrimSpace(in.Status); st != "" {
		base = base.Where("status = ?", st)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}
	var items []Application
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// Review approves or rejects a pending application; approval upgrades the
// applicant to the wholesale role.
func (s *Service) Review(ctx context.Context, id, reviewerID, decision, note string) error {
	if decision != StatusApproved && decision != StatusRejected {
		return ErrNotReviewable
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app Application
		if err := tx.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"status":      decision,
			"reviewed_by": reviewerID,
			"updated_at":  time.Now(),
		}
		if n := strings.TrimSpace(note); n != "" {
			updates["review_note"] = n
		}

		res := tx.WithContext(ctx).Model(&Application{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotReviewable
		}

		if decision == StatusApproved {
			return tx.WithContext(ctx).Model(&users.User{}).
				Where("id = ?", app.UserID).
				Updates(map[string]any{"role": users.RoleWholesale, "updated_at": time.Now()}).Error
		}
		return nil
	})
}
