package fulfillment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
)

var (
	ErrAlreadyAssigned = errors.New("order already has a fulfillment assignment")
	ErrNotAssignable   = errors.New("assignment not in an assignable state")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Assign(ctx context.Context, orderID, distributorID string) (Assignment, error) {
	now := time.Now()
	a := Assignment{
		ID:            uuid.NewString(),
		OrderID:       orderID,
		DistributorID: distributorID,
		Status:        StatusAssigned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		if dberr.IsDuplicateKey(err) {
			return Assignment{}, ErrAlreadyAssigned
		}
		return Assignment{}, err
	}
	return a, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return a, err
}

// CompletedForOrder returns the completed assignment for an order, or nil.
func (r *Repo) CompletedForOrder(ctx context.Context, orderID string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		First(&a, "order_id = ? AND status = ?", orderID, StatusCompleted).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Accept(ctx context.Context, id, distributorID string) error {
	res := r.db.WithContext(ctx).Model(&Assignment{}).
		Where("id = ? AND distributor_id = ? AND status = ?", id, distributorID, StatusAssigned).
		Updates(map[string]any{"status": StatusAccepted, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAssignable
	}
	return nil
}

func (r *Repo) Complete(ctx context.Context, id string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&Assignment{}).
		Where("id = ? AND status IN ?", id, []string{StatusAssigned, StatusAccepted}).
		Updates(map[string]any{"status": StatusCompleted, "completed_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAssignable
	}
	return nil
}
