package discounts

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/pricing"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// CheckCode validates everything about the code itself: active flag,
// temporal window and usage cap. Order-level checks live in Apply.
func CheckCode(code DiscountCode, now time.Time) error {
	if !code.Active {
		return ErrCodeInactive
	}
	if now.Before(code.StartsAt) {
		return ErrCodeNotStarted
	}
	if code.EndsAt != nil && now.After(*code.EndsAt) {
		return ErrCodeExpired
	}
	if code.UsageLimit != nil && code.TimesUsed >= *code.UsageLimit {
		return ErrCodeExhausted
	}
	return nil
}

// AmountFor computes the discount in cents for an order total. Percentages
// are re-clamped to 100 here so a bad row can never discount more than the
// total, and the max-discount cap applies after the percentage.
func AmountFor(code DiscountCode, totalCents int) int {
	switch code.Kind {
	case KindPercentage:
		pct := code.PercentOff
		if pct > 100 {
			pct = 100
		}
		amount := pricing.PercentOf(totalCents, pct)
		if code.MaxDiscountCents != nil && amount > *code.MaxDiscountCents {
			amount = *code.MaxDiscountCents
		}
		return amount
	case KindFixedAmount:
		if code.AmountOffCents > totalCents {
			return totalCents
		}
		return code.AmountOffCents
	default:
		return 0
	}
}

type ApplyInput struct {
	UserID  string
	OrderID string
	Code    string
}

type ApplyResult struct {
	Code          string
	DiscountCents int
	NewTotalCents int
}

// Apply validates the code against the order and, on success, writes the
// order discount fields and increments the usage counter in one
// transaction. The counter increment is guarded in SQL so two concurrent
// applications cannot both consume the last use of a code.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (ApplyResult, error) {
	var out ApplyResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o orders.Order
		if err := tx.WithContext(ctx).First(&o, "id = ?", in.OrderID).Error; err != nil {
			return err
		}
		if o.UserID != in.UserID {
			// Do not leak other users' orders.
			return gorm.ErrRecordNotFound
		}
		if o.DiscountCodeID != nil {
			return ErrAlreadyApplied
		}
		if !orders.DiscountApplicable(o.Status) {
			return ErrOrderNotEligible
		}

		var code DiscountCode
		if err := tx.WithContext(ctx).First(&code, "code = ?", in.Code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		if err := CheckCode(code, time.Now()); err != nil {
			return err
		}
		if o.TotalCents < code.MinOrderCents {
			return ErrMinOrderNotMet
		}

		amount := AmountFor(code, o.TotalCents)
		if amount <= 0 {
			return ErrZeroDiscount
		}

		// Guarded increment: zero rows affected means the last use was
		// consumed (or the code was deactivated) since we read it.
		res := tx.WithContext(ctx).Model(&DiscountCode{}).
			Where("id = ? AND active = ?", code.ID, true).
			Where("usage_limit IS NULL OR times_used < usage_limit").
			Updates(map[string]any{
				"times_used": gorm.Expr("times_used + 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCodeExhausted
		}

		newTotal := o.TotalCents - amount
		res = tx.WithContext(ctx).Model(&orders.Order{}).
			Where("id = ? AND discount_code_id IS NULL AND status = ?", o.ID, o.Status).
			Updates(map[string]any{
				"discount_code_id": code.ID,
				"discount_code":    code.Code,
				"discount_cents":   amount,
				"total_cents":      newTotal,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Raced with another application or a status change.
			return ErrAlreadyApplied
		}

		note := "code=" + code.Code
		ev := orders.OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ActorUserID: in.UserID,
			Action:      "discount_applied",
			FromStatus:  o.Status,
			ToStatus:    o.Status,
			Note:        &note,
			CreatedAt:   time.Now(),
		}
		if err := tx.WithContext(ctx).Create(&ev).Error; err != nil {
			return err
		}

		out = ApplyResult{Code: code.Code, DiscountCents: amount, NewTotalCents: newTotal}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	log.Printf("discount applied: order=%s code=%s amount_cents=%d", in.OrderID, out.Code, out.DiscountCents)
	return out, nil
}
