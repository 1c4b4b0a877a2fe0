package orders

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
)

// CommissionEngine is implemented by the commissions service. Declared here
// to keep the dependency one-way (commissions already imports orders).
type CommissionEngine interface {
	AccrueForOrder(ctx context.Context, orderID string) error
	CancelForOrder(ctx context.Context, orderID string) (int64, error)
}

type AdminService struct {
	db          *gorm.DB
	commissions CommissionEngine // optional
}

func NewAdminService(db *gorm.DB, commissions CommissionEngine) *AdminService {
	return &AdminService{db: db, commissions: commissions}
}

type TransitionInput struct {
	OrderID     string
	ActorUserID string // admin user id
	Status      string // target status
	Reason      string // required, stored in the audit trail
}

// Transition moves an order to a new status. The primary write is a single
// conditional UPDATE guarded by the current status, so two concurrent
// transitions cannot both succeed and side effects run at most once. Side
// effects are best-effort: the committed status change is authoritative and
// a failed follow-up is logged and recorded for reconciliation, never
// propagated.
func (s *AdminService) Transition(ctx context.Context, in TransitionInput) error {
	if in.OrderID == "" || in.ActorUserID == "" {
		return ErrNotActionable
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if !ValidStatus(in.Status) {
		return ErrUnknownStatus
	}

	var o Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&o, "id = ?", in.OrderID).Error; err != nil {
			return err
		}

		from := o.Status
		to := in.Status
		if from == to || !CanTransition(from, to) {
			return ErrInvalidTransition
		}

		now := time.Now()
		updates := map[string]any{
			"status":     to,
			"updated_at": now,
		}
		if to == StatusRefunded && o.PaymentStatus == PaymentPaid {
			updates["payment_status"] = PaymentRefunded
		}

		res := tx.WithContext(ctx).
			Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, from). // optimistic guard
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with another transition.
			return ErrInvalidTransition
		}

		ev := OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ActorUserID: in.ActorUserID,
			Action:      "status_change",
			FromStatus:  from,
			ToStatus:    to,
			Note:        &reason,
			CreatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&ev).Error
	})
	if err != nil {
		return err
	}

	s.applySideEffects(ctx, o, in.Status, in.ActorUserID)
	return nil
}

// applySideEffects runs after the status change committed. Errors here are
// swallowed by design; each failure leaves a SideEffectFailure row so it
// stays observable and correctable.
func (s *AdminService) applySideEffects(ctx context.Context, o Order, to, actorUserID string) {
	switch to {
	case StatusCancelled:
		s.restockItems(ctx, o, actorUserID)
		s.cancelCommissions(ctx, o.ID)

	case StatusRefunded:
		if o.PaymentStatus == PaymentPaid {
			s.createRefundTask(ctx, o)
		}
		s.cancelCommissions(ctx, o.ID)

	case StatusShipped:
		if s.commissions != nil {
			if err := s.commissions.AccrueForOrder(ctx, o.ID); err != nil {
				s.recordFailure(ctx, o.ID, "commission_accrual", "", err)
			}
		}
	}
}

func (s *AdminService) restockItems(ctx context.Context, o Order, actorUserID string) {
	var items []OrderItem
	if err := s.db.WithContext(ctx).Find(&items, "order_id = ?", o.ID).Error; err != nil {
		s.recordFailure(ctx, o.ID, "restock", "loading order items", err)
		return
	}

	invRepo := inventory.NewRepo(s.db)
	restocked := 0
	for _, it := range items {
		if err := invRepo.Adjust(ctx, it.ProductID, inventory.DefaultLocation, it.Quantity); err != nil {
			s.recordFailure(ctx, o.ID, "restock", fmt.Sprintf("product %s qty %d", it.ProductID, it.Quantity), err)
			continue
		}
		restocked++
	}

	note := fmt.Sprintf("restocked %d of %d line items at %s", restocked, len(items), inventory.DefaultLocation)
	ev := OrderEvent{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		ActorUserID: actorUserID,
		Action:      "restock",
		FromStatus:  StatusCancelled,
		ToStatus:    StatusCancelled,
		Note:        &note,
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		log.Printf("restock note failed for order %s: %v", o.ID, err)
	}
}

func (s *AdminService) cancelCommissions(ctx context.Context, orderID string) {
	if s.commissions == nil {
		return
	}
	n, err := s.commissions.CancelForOrder(ctx, orderID)
	if err != nil {
		s.recordFailure(ctx, orderID, "cancel_commissions", "", err)
		return
	}
	if n > 0 {
		log.Printf("cancelled %d commissions for order %s", n, orderID)
	}
}

func (s *AdminService) createRefundTask(ctx context.Context, o Order) {
	relType := "order"
	relID := o.ID
	_, err := tasks.NewRepo(s.db).Create(ctx, tasks.CreateInput{
		Title:       fmt.Sprintf("Process refund for order %s", o.ID),
		Category:    tasks.CategoryRefund,
		Priority:    tasks.PriorityHigh,
		RelatedType: &relType,
		RelatedID:   &relID,
	})
	if err != nil {
		s.recordFailure(ctx, o.ID, "refund_task", "", err)
	}
}

func (s *AdminService) recordFailure(ctx context.Context, orderID, effect, detail string, cause error) {
	log.Printf("side effect %s failed for order %s: %v", effect, orderID, cause)

	now := time.Now()
	f := SideEffectFailure{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Effect:    effect,
		Detail:    detail,
		Error:     cause.Error(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		log.Printf("recording side effect failure for order %s: %v", orderID, err)
	}
}
