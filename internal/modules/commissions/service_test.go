package commissions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/fulfillment"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{}, &orders.Order{}, &fulfillment.Assignment{}, &tasks.Task{}, &Commission{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string, referredBy *string, ratePercent *float64) users.User {
	t.Helper()
	now := time.Now()
	u := users.User{
		ID:             uuid.NewString(),
		Email:          uuid.NewString() + "@example.com",
		PasswordHash:   []byte("x"),
		Role:           role,
		ReferralCode:   "HP" + uuid.NewString()[:8],
		ReferredBy:     referredBy,
		CommissionRate: ratePercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, totalCents int, status string) orders.Order {
	t.Helper()
	now := time.Now()
	o := orders.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Currency:      "CAD",
		SubtotalCents: totalCents,
		TotalCents:    totalCents,
		Status:        status,
		PaymentStatus: orders.PaymentPaid,
		PaymentMethod: "etransfer",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func floatp(v float64) *float64 { return &v }

func TestReferralAccrual(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	referrer := seedUser(t, db, users.RoleCustomer, nil, floatp(5))
	customer := seedUser(t, db, users.RoleCustomer, &referrer.ID, nil)
	o := seedOrder(t, db, customer.ID, 6650, orders.StatusShipped)

	results, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ref := results[0]
	assert.Equal(t, KindOrderReferral, ref.Kind)
	assert.False(t, ref.Skipped)
	assert.False(t, ref.Existing)
	// 5% of $66.50 is $3.325 -> rounds to $3.33.
	assert.Equal(t, 333, ref.AmountCents)

	// No completed fulfillment on this order.
	assert.True(t, results[1].Skipped)

	var c Commission
	require.NoError(t, db.First(&c, "id = ?", ref.CommissionID).Error)
	assert.Equal(t, referrer.ID, c.UserID)
	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, 333, c.AmountCents)

	// Accrual opens a payout task for review.
	var payoutTasks int64
	require.NoError(t, db.Model(&tasks.Task{}).
		Where("category = ? AND related_id = ?", tasks.CategoryPayout, o.ID).Count(&payoutTasks).Error)
	assert.EqualValues(t, 1, payoutTasks)
}

func TestAccrualIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	referrer := seedUser(t, db, users.RoleCustomer, nil, floatp(5))
	customer := seedUser(t, db, users.RoleCustomer, &referrer.ID, nil)
	o := seedOrder(t, db, customer.ID, 6650, orders.StatusShipped)

	first, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)
	second, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)

	assert.False(t, first[0].Existing)
	assert.True(t, second[0].Existing)
	assert.Equal(t, first[0].CommissionID, second[0].CommissionID)

	var count int64
	require.NoError(t, db.Model(&Commission{}).
		Where("related_id = ? AND kind = ?", o.ID, KindOrderReferral).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAccrualSkips(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	// No referrer at all.
	loner := seedUser(t, db, users.RoleCustomer, nil, nil)
	o1 := seedOrder(t, db, loner.ID, 6650, orders.StatusShipped)
	results, err := svc.CalculateForOrder(ctx, o1.ID)
	require.NoError(t, err)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, "no referrer", results[0].Reason)

	// Referrer exists but has no rate configured.
	noRate := seedUser(t, db, users.RoleCustomer, nil, nil)
	referred := seedUser(t, db, users.RoleCustomer, &noRate.ID, nil)
	o2 := seedOrder(t, db, referred.ID, 6650, orders.StatusShipped)
	results, err = svc.CalculateForOrder(ctx, o2.ID)
	require.NoError(t, err)
	assert.True(t, results[0].Skipped)

	var count int64
	require.NoError(t, db.Model(&Commission{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAccrualRequiresEligibleStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	u := seedUser(t, db, users.RoleCustomer, nil, nil)
	o := seedOrder(t, db, u.ID, 6650, orders.StatusProcessing)

	_, err := svc.CalculateForOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrOrderNotEligible)
}

func TestDistributorFulfillmentAccrual(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	customer := seedUser(t, db, users.RoleCustomer, nil, nil)
	dist := seedUser(t, db, users.RoleDistributor, nil, floatp(8))
	o := seedOrder(t, db, customer.ID, 10000, orders.StatusDelivered)

	frepo := fulfillment.NewRepo(db)
	a, err := frepo.Assign(ctx, o.ID, dist.ID)
	require.NoError(t, err)
	require.NoError(t, frepo.Complete(ctx, a.ID))

	results, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ful := results[1]
	assert.Equal(t, KindDistributorFulfillment, ful.Kind)
	assert.False(t, ful.Skipped)
	assert.Equal(t, 800, ful.AmountCents)

	var c Commission
	require.NoError(t, db.First(&c, "id = ?", ful.CommissionID).Error)
	assert.Equal(t, dist.ID, c.UserID)
}

func TestCancelForOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	referrer := seedUser(t, db, users.RoleCustomer, nil, floatp(5))
	customer := seedUser(t, db, users.RoleCustomer, &referrer.ID, nil)
	o := seedOrder(t, db, customer.ID, 6650, orders.StatusShipped)

	_, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)

	n, err := svc.CancelForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var c Commission
	require.NoError(t, db.First(&c, "related_id = ?", o.ID).Error)
	assert.Equal(t, StatusCancelled, c.Status)

	// Already cancelled: nothing left to touch.
	n, err = svc.CancelForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestMarkPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	referrer := seedUser(t, db, users.RoleCustomer, nil, floatp(5))
	customer := seedUser(t, db, users.RoleCustomer, &referrer.ID, nil)
	o := seedOrder(t, db, customer.ID, 6650, orders.StatusShipped)

	results, err := svc.CalculateForOrder(ctx, o.ID)
	require.NoError(t, err)
	id := results[0].CommissionID

	require.NoError(t, svc.MarkPaid(ctx, id))

	var c Commission
	require.NoError(t, db.First(&c, "id = ?", id).Error)
	assert.Equal(t, StatusPaid, c.Status)
	assert.NotNil(t, c.PaidAt)

	assert.ErrorIs(t, svc.MarkPaid(ctx, id), ErrNotPayable)
}
