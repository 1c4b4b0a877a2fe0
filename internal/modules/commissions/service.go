package commissions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/fulfillment"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/pricing"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

type AccrualResult struct {
	Kind         string
	CommissionID string
	AmountCents  int
	Existing     bool // a commission for this (order, kind) already existed
	Skipped      bool
	Reason       string
}

// CalculateForOrder runs both accrual paths for an order: the referral
// commission for the customer's referrer and the fulfillment commission for
// the distributor who completed the assignment. Missing referrer, missing
// rate or a zero amount are no-ops, not errors.
func (s *Service) CalculateForOrder(ctx context.Context, orderID string) ([]AccrualResult, error) {
	var o orders.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	if !orders.CommissionEligible(o.Status) {
		return nil, ErrOrderNotEligible
	}

	var out []AccrualResult

	ref, err := users.NewRepo(s.db).Referrer(ctx, o.UserID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		out = append(out, AccrualResult{Kind: KindOrderReferral, Skipped: true, Reason: "no referrer"})
	} else {
		res, err := s.accrue(ctx, o, KindOrderReferral, ref.ID, ref.CommissionRate)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	asg, err := fulfillment.NewRepo(s.db).CompletedForOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		out = append(out, AccrualResult{Kind: KindDistributorFulfillment, Skipped: true, Reason: "no completed fulfillment"})
	} else {
		dist, err := users.NewRepo(s.db).Get(ctx, asg.DistributorID)
		if err != nil {
			return nil, err
		}
		res, err := s.accrue(ctx, o, KindDistributorFulfillment, dist.ID, dist.CommissionRate)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, nil
}

func (s *Service) accrue(ctx context.Context, o orders.Order, kind, recipientID string, ratePercent *float64) (AccrualResult, error) {
	if ratePercent == nil || *ratePercent <= 0 {
		return AccrualResult{Kind: kind, Skipped: true, Reason: "no commission rate configured"}, nil
	}

	amount := pricing.PercentOf(o.TotalCents, *ratePercent)
	if amount <= 0 {
		return AccrualResult{Kind: kind, Skipped: true, Reason: "computed amount is zero"}, nil
	}

	// Duplicate guard: the SELECT short-circuits the common case, the unique
	// index on (related_type, related_id, kind) closes the race.
	var existing Commission
	err := s.db.WithContext(ctx).
		First(&existing, "related_type = ? AND related_id = ? AND kind = ?", RelatedOrder, o.ID, kind).Error
	if err == nil {
		return AccrualResult{Kind: kind, CommissionID: existing.ID, AmountCents: existing.AmountCents, Existing: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AccrualResult{}, err
	}

	now := time.Now()
	note := fmt.Sprintf("order %s at %.2f%%", o.ID, *ratePercent)
	c := Commission{
		ID:          uuid.NewString(),
		UserID:      recipientID,
		Kind:        kind,
		AmountCents: amount,
		Status:      StatusPending,
		RelatedType: RelatedOrder,
		RelatedID:   o.ID,
		RatePercent: *ratePercent,
		Notes:       &note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&c).Error; err != nil {
			return err
		}
		relType := RelatedOrder
		relID := o.ID
		_, err := tasks.NewRepo(s.db).CreateInTx(ctx, tx, tasks.CreateInput{
			Title:       fmt.Sprintf("Approve %s payout for order %s", kind, o.ID),
			Category:    tasks.CategoryPayout,
			Priority:    tasks.PriorityMedium,
			RelatedType: &relType,
			RelatedID:   &relID,
		})
		return err
	})
	if err != nil {
		if dberr.IsDuplicateKey(err) {
			// Lost the race: report the row that won.
			var winner Commission
			if e := s.db.WithContext(ctx).
				First(&winner, "related_type = ? AND related_id = ? AND kind = ?", RelatedOrder, o.ID, kind).Error; e == nil {
				return AccrualResult{Kind: kind, CommissionID: winner.ID, AmountCents: winner.AmountCents, Existing: true}, nil
			}
		}
		return AccrualResult{}, err
	}

	log.Printf("commission accrued: order=%s kind=%s recipient=%s amount_cents=%d", o.ID, kind, recipientID, amount)
	return AccrualResult{Kind: kind, CommissionID: c.ID, AmountCents: amount}, nil
}

// AccrueForOrder satisfies the orders.CommissionEngine hook used by status
// transitions; per-path results are logged by accrue.
func (s *Service) AccrueForOrder(ctx context.Context, orderID string) error {
	_, err := s.CalculateForOrder(ctx, orderID)
	return err
}

// CancelForOrder cancels all pending commissions related to an order and
// returns how many rows changed. Safe to call from transition side effects.
func (s *Service) CancelForOrder(ctx context.Context, orderID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&Commission{}).
		Where("related_type = ? AND related_id = ? AND status = ?", RelatedOrder, orderID, StatusPending).
		Updates(map[string]any{"status": StatusCancelled, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// MarkPaid records an admin payout. Only pending commissions can be paid.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&Commission{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{"status": StatusPaid, "paid_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPayable
	}
	return nil
}

type ListParams struct {
	UserID   string // optional
	Status   string // optional
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Commission
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

	base := s.db.WithContext(ctx).Model(&Commission{})
	if in.UserID != "" {
		base = base.Where("user_id = ?", in.UserID)
	}
	if in.Status != "" {
		base = base.Where("status = ?", in.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}
	var items []Commission
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}
