package discounts

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

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orders.Order{}, &orders.OrderEvent{}, &DiscountCode{}))
	return db
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
		PaymentStatus: orders.PaymentUnpaid,
		PaymentMethod: "etransfer",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func seedCode(t *testing.T, db *gorm.DB, code DiscountCode) DiscountCode {
	t.Helper()
	now := time.Now()
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.StartsAt.IsZero() {
		code.StartsAt = now.Add(-time.Hour)
	}
	code.CreatedAt = now
	code.UpdatedAt = now
	require.NoError(t, db.Create(&code).Error)
	return code
}

func intp(v int) *int { return &v }

func TestCheckCode(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	base := DiscountCode{Active: true, StartsAt: past}

	assert.NoError(t, CheckCode(base, now))

	inactive := base
	inactive.Active = false
	assert.ErrorIs(t, CheckCode(inactive, now), ErrCodeInactive)

	notStarted := base
	notStarted.StartsAt = future
	assert.ErrorIs(t, CheckCode(notStarted, now), ErrCodeNotStarted)

	expired := base
	expired.EndsAt = &past
	assert.ErrorIs(t, CheckCode(expired, now), ErrCodeExpired)

	exhausted := base
	exhausted.UsageLimit = intp(3)
	exhausted.TimesUsed = 3
	assert.ErrorIs(t, CheckCode(exhausted, now), ErrCodeExhausted)

	oneLeft := base
	oneLeft.UsageLimit = intp(3)
	oneLeft.TimesUsed = 2
	assert.NoError(t, CheckCode(oneLeft, now))
}

func TestAmountFor(t *testing.T) {
	// 10% of $66.50 -> $6.65.
	assert.Equal(t, 665, AmountFor(DiscountCode{Kind: KindPercentage, PercentOff: 10}, 6650))

	// Bad rows never discount more than the total.
	assert.Equal(t, 6650, AmountFor(DiscountCode{Kind: KindPercentage, PercentOff: 150}, 6650))

	// Max-discount cap applies after the percentage.
	capped := DiscountCode{Kind: KindPercentage, PercentOff: 50, MaxDiscountCents: intp(500)}
	assert.Equal(t, 500, AmountFor(capped, 6650))

	// Fixed codes are clamped to the total.
	assert.Equal(t, 1000, AmountFor(DiscountCode{Kind: KindFixedAmount, AmountOffCents: 1000}, 6650))
	assert.Equal(t, 6650, AmountFor(DiscountCode{Kind: KindFixedAmount, AmountOffCents: 9999}, 6650))

	assert.Equal(t, 0, AmountFor(DiscountCode{Kind: "mystery"}, 6650))
}

func TestApplyPercentage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	o := seedOrder(t, db, "u1", 6650, orders.StatusPendingPayment)
	seedCode(t, db, DiscountCode{Code: "SAVE10", Kind: KindPercentage, PercentOff: 10, Active: true})

	res, err := svc.Apply(context.Background(), ApplyInput{UserID: "u1", OrderID: o.ID, Code: "SAVE10"})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", res.Code)
	assert.Equal(t, 665, res.DiscountCents)
	assert.Equal(t, 5985, res.NewTotalCents)

	var got orders.Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	assert.Equal(t, 665, got.DiscountCents)
	assert.Equal(t, 5985, got.TotalCents)
	require.NotNil(t, got.DiscountCode)
	assert.Equal(t, "SAVE10", *got.DiscountCode)

	var code DiscountCode
	require.NoError(t, db.First(&code, "code = ?", "SAVE10").Error)
	assert.Equal(t, 1, code.TimesUsed)

	var events int64
	require.NoError(t, db.Model(&orders.OrderEvent{}).
		Where("order_id = ? AND action = ?", o.ID, "discount_applied").Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestApplyRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	o := seedOrder(t, db, "u1", 6650, orders.StatusPendingPayment)

	_, err := svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: o.ID, Code: "NOPE"})
	assert.ErrorIs(t, err, ErrCodeNotFound)

	seedCode(t, db, DiscountCode{Code: "BIGONLY", Kind: KindPercentage, PercentOff: 10, MinOrderCents: 10000, Active: true})
	_, err = svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: o.ID, Code: "BIGONLY"})
	assert.ErrorIs(t, err, ErrMinOrderNotMet)

	past := time.Now().Add(-time.Minute)
	seedCode(t, db, DiscountCode{Code: "OLD", Kind: KindPercentage, PercentOff: 10, Active: true, EndsAt: &past})
	_, err = svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: o.ID, Code: "OLD"})
	assert.ErrorIs(t, err, ErrCodeExpired)

	// Another user's order reads as not found, not forbidden.
	_, err = svc.Apply(ctx, ApplyInput{UserID: "intruder", OrderID: o.ID, Code: "OLD"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	shipped := seedOrder(t, db, "u1", 6650, orders.StatusShipped)
	seedCode(t, db, DiscountCode{Code: "LATE", Kind: KindPercentage, PercentOff: 10, Active: true})
	_, err = svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: shipped.ID, Code: "LATE"})
	assert.ErrorIs(t, err, ErrOrderNotEligible)
}

func TestApplyOncePerOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	o := seedOrder(t, db, "u1", 6650, orders.StatusPendingPayment)
	seedCode(t, db, DiscountCode{Code: "FIRST", Kind: KindFixedAmount, AmountOffCents: 500, Active: true})
	seedCode(t, db, DiscountCode{Code: "SECOND", Kind: KindFixedAmount, AmountOffCents: 500, Active: true})

	_, err := svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: o.ID, Code: "FIRST"})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: o.ID, Code: "SECOND"})
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	// The second code's counter stays untouched.
	var second DiscountCode
	require.NoError(t, db.First(&second, "code = ?", "SECOND").Error)
	assert.Equal(t, 0, second.TimesUsed)
}

func TestApplyUsageLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedCode(t, db, DiscountCode{Code: "ONEUSE", Kind: KindFixedAmount, AmountOffCents: 500, Active: true, UsageLimit: intp(1)})

	first := seedOrder(t, db, "u1", 6650, orders.StatusPendingPayment)
	_, err := svc.Apply(ctx, ApplyInput{UserID: "u1", OrderID: first.ID, Code: "ONEUSE"})
	require.NoError(t, err)

	second := seedOrder(t, db, "u2", 6650, orders.StatusPendingPayment)
	_, err = svc.Apply(ctx, ApplyInput{UserID: "u2", OrderID: second.ID, Code: "ONEUSE"})
	assert.ErrorIs(t, err, ErrCodeExhausted)

	// The rejected order keeps its full total.
	var got orders.Order
	require.NoError(t, db.First(&got, "id = ?", second.ID).Error)
	assert.Equal(t, 6650, got.TotalCents)
	assert.Nil(t, got.DiscountCodeID)
}
