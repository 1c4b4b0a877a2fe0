package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
)

type stubEngine struct {
	accrued   []string
	cancelled []string
	accrueErr error
}

func (s *stubEngine) AccrueForOrder(_ context.Context, orderID string) error {
	if s.accrueErr != nil {
		return s.accrueErr
	}
	s.accrued = append(s.accrued, orderID)
	return nil
}

func (s *stubEngine) CancelForOrder(_ context.Context, orderID string) (int64, error) {
	s.cancelled = append(s.cancelled, orderID)
	return 1, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Order{}, &OrderItem{}, &OrderEvent{}, &SideEffectFailure{},
		&inventory.Level{}, &tasks.Task{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, status, paymentStatus string) Order {
	t.Helper()
	now := time.Now()
	o := Order{
		ID:            uuid.NewString(),
		UserID:        uuid.NewString(),
		Currency:      "CAD",
		SubtotalCents: 5000,
		ShippingCents: 1000,
		TaxCents:      650,
		TotalCents:    6650,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: "etransfer",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func seedItem(t *testing.T, db *gorm.DB, orderID, productID string, qty int) {
	t.Helper()
	it := OrderItem{
		ID:             uuid.NewString(),
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    "Frost Mint 6mg",
		SKU:            "FM-6",
		Quantity:       qty,
		UnitPriceCents: 1500,
		LineTotalCents: 1500 * qty,
		Currency:       "CAD",
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&it).Error)
}

func TestTransitionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, nil)
	ctx := context.Background()

	o := seedOrder(t, db, StatusProcessing, PaymentPaid)

	err := svc.Transition(ctx, TransitionInput{OrderID: o.ID, ActorUserID: "admin", Status: StatusShipped})
	assert.ErrorIs(t, err, ErrReasonRequired)

	err = svc.Transition(ctx, TransitionInput{OrderID: o.ID, ActorUserID: "admin", Status: "teleported", Reason: "x"})
	assert.ErrorIs(t, err, ErrUnknownStatus)

	err = svc.Transition(ctx, TransitionInput{OrderID: o.ID, ActorUserID: "admin", Status: StatusDelivered, Reason: "x"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Same status is not a transition.
	err = svc.Transition(ctx, TransitionInput{OrderID: o.ID, ActorUserID: "admin", Status: StatusProcessing, Reason: "x"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing above may have touched the row.
	var got Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	assert.Equal(t, StatusProcessing, got.Status)
}

func TestTransitionShippedAccruesCommissions(t *testing.T) {
	db := newTestDB(t)
	eng := &stubEngine{}
	svc := NewAdminService(db, eng)
	ctx := context.Background()

	o := seedOrder(t, db, StatusProcessing, PaymentPaid)

	err := svc.Transition(ctx, TransitionInput{
		OrderID: o.ID, ActorUserID: "admin", Status: StatusShipped, Reason: "carrier picked up",
	})
	require.NoError(t, err)

	var got Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	assert.Equal(t, StatusShipped, got.Status)
	assert.Equal(t, []string{o.ID}, eng.accrued)

	var ev OrderEvent
	require.NoError(t, db.First(&ev, "order_id = ? AND action = ?", o.ID, "status_change").Error)
	assert.Equal(t, StatusProcessing, ev.FromStatus)
	assert.Equal(t, StatusShipped, ev.ToStatus)
	require.NotNil(t, ev.Note)
	assert.Equal(t, "carrier picked up", *ev.Note)
}

func TestTransitionCancelledRestocksAndCancelsCommissions(t *testing.T) {
	db := newTestDB(t)
	eng := &stubEngine{}
	svc := NewAdminService(db, eng)
	ctx := context.Background()

	o := seedOrder(t, db, StatusProcessing, PaymentUnpaid)
	p1, p2 := uuid.NewString(), uuid.NewString()
	seedItem(t, db, o.ID, p1, 2)
	seedItem(t, db, o.ID, p2, 1)

	err := svc.Transition(ctx, TransitionInput{
		OrderID: o.ID, ActorUserID: "admin", Status: StatusCancelled, Reason: "customer request",
	})
	require.NoError(t, err)

	var lvl inventory.Level
	require.NoError(t, db.First(&lvl, "product_id = ? AND location = ?", p1, inventory.DefaultLocation).Error)
	assert.Equal(t, 2, lvl.Quantity)
	require.NoError(t, db.First(&lvl, "product_id = ? AND location = ?", p2, inventory.DefaultLocation).Error)
	assert.Equal(t, 1, lvl.Quantity)

	assert.Equal(t, []string{o.ID}, eng.cancelled)

	var restocks int64
	require.NoError(t, db.Model(&OrderEvent{}).
		Where("order_id = ? AND action = ?", o.ID, "restock").Count(&restocks).Error)
	assert.EqualValues(t, 1, restocks)
}

func TestTransitionRefundedCreatesRefundTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, nil)
	ctx := context.Background()

	paid := seedOrder(t, db, StatusProcessing, PaymentPaid)
	err := svc.Transition(ctx, TransitionInput{
		OrderID: paid.ID, ActorUserID: "admin", Status: StatusRefunded, Reason: "damaged in transit",
	})
	require.NoError(t, err)

	var got Order
	require.NoError(t, db.First(&got, "id = ?", paid.ID).Error)
	assert.Equal(t, StatusRefunded, got.Status)
	assert.Equal(t, PaymentRefunded, got.PaymentStatus)

	var refundTasks int64
	require.NoError(t, db.Model(&tasks.Task{}).
		Where("category = ? AND related_id = ?", tasks.CategoryRefund, paid.ID).Count(&refundTasks).Error)
	assert.EqualValues(t, 1, refundTasks)

	// An unpaid order has nothing to refund, so no task.
	unpaid := seedOrder(t, db, StatusProcessing, PaymentUnpaid)
	err = svc.Transition(ctx, TransitionInput{
		OrderID: unpaid.ID, ActorUserID: "admin", Status: StatusRefunded, Reason: "never paid",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&tasks.Task{}).
		Where("category = ? AND related_id = ?", tasks.CategoryRefund, unpaid.ID).Count(&refundTasks).Error)
	assert.EqualValues(t, 0, refundTasks)
}

func TestTransitionRecordsSideEffectFailures(t *testing.T) {
	db := newTestDB(t)
	eng := &stubEngine{accrueErr: errors.New("commission backend down")}
	svc := NewAdminService(db, eng)
	ctx := context.Background()

	o := seedOrder(t, db, StatusProcessing, PaymentPaid)

	// The transition itself must still succeed.
	err := svc.Transition(ctx, TransitionInput{
		OrderID: o.ID, ActorUserID: "admin", Status: StatusShipped, Reason: "carrier picked up",
	})
	require.NoError(t, err)

	var got Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	assert.Equal(t, StatusShipped, got.Status)

	var f SideEffectFailure
	require.NoError(t, db.First(&f, "order_id = ?", o.ID).Error)
	assert.Equal(t, "commission_accrual", f.Effect)
	assert.Contains(t, f.Error, "commission backend down")
	assert.False(t, f.Resolved)
}
