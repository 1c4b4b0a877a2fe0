package discounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
)

var (
	ErrDuplicateCode  = errors.New("discount code already exists")
	ErrInvalidKind    = errors.New("discount kind must be percentage or fixed_amount")
	ErrInvalidValue   = errors.New("discount value must be positive")
	ErrPercentTooHigh = errors.New("percentage discount cannot exceed 100")
	ErrInvalidWindow  = errors.New("validity window end precedes start")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CodeInput struct {
	Code             string
	Kind             string
	PercentOff       float64
	AmountOffCents   int
	MinOrderCents    int
	MaxDiscountCents *int
	StartsAt         time.Time
	EndsAt           *time.Time
	UsageLimit       *int
	Active           bool
}

func (in CodeInput) validate() error {
	switch in.Kind {
	case KindPercentage:
		if in.PercentOff <= 0 {
			return ErrInvalidValue
		}
		if in.PercentOff > 100 {
			return ErrPercentTooHigh
		}
	case KindFixedAmount:
		if in.AmountOffCents <= 0 {
			return ErrInvalidValue
		}
	default:
		return ErrInvalidKind
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return ErrInvalidWindow
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, in CodeInput) (DiscountCode, error) {
	if err := in.validate(); err != nil {
		return DiscountCode{}, err
	}

	now := time.Now()
	dc := DiscountCode{
		ID:               uuid.NewString(),
		Code:             strings.ToUpper(strings.TrimSpace(in.Code)),
		Kind:             in.Kind,
		PercentOff:       in.PercentOff,
		AmountOffCents:   in.AmountOffCents,
		MinOrderCents:    in.MinOrderCents,
		MaxDiscountCents: in.MaxDiscountCents,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
		UsageLimit:       in.UsageLimit,
		Active:           in.Active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if dc.StartsAt.IsZero() {
		dc.StartsAt = now
	}
	if err := r.db.WithContext(ctx).Create(&dc).Error; err != nil {
		if dberr.IsDuplicateKey(err) {
			return DiscountCode{}, ErrDuplicateCode
		}
		return DiscountCode{}, err
	}
	return dc, nil
}

func (r *Repo) Update(ctx context.Context, id string, in CodeInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&DiscountCode{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"code":               strings.ToUpper(strings.TrimSpace(in.Code)),
			"kind":               in.Kind,
			"percent_off":        in.PercentOff,
			"amount_off_cents":   in.AmountOffCents,
			"min_order_cents":    in.MinOrderCents,
			"max_discount_cents": in.MaxDiscountCents,
			"starts_at":          in.StartsAt,
			"ends_at":            in.EndsAt,
			"usage_limit":        in.UsageLimit,
			"active":             in.Active,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		if dberr.IsDuplicateKey(res.Error) {
			return ErrDuplicateCode
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (DiscountCode, error) {
	var dc DiscountCode
	err := r.db.WithContext(ctx).First(&dc, "id = ?", id).Error
	return dc, err
}

type ListResult struct {
	Items []DiscountCode
	Total int64
}

func (r *Repo) List(ctx context.Context, page, size int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 30
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&DiscountCode{}).Count(&total).Error; err != nil {
		return ListResult{}, err
	}
	var items []DiscountCode
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// Delete is a hard row delete; the normal flow disables codes via Active.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&DiscountCode{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
