package wholesale

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

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &Application{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) users.User {
	t.Helper()
	now := time.Now()
	u := users.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: []byte("x"),
		Role:         users.RoleCustomer,
		ReferralCode: "HP" + uuid.NewString()[:8],
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestApplyOncePending(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	u := seedUser(t, db)

	app, err := svc.Apply(ctx, ApplyInput{UserID: u.ID, CompanyName: "Rink Supply Co", BusinessNumber: "BN123"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)

	_, err = svc.Apply(ctx, ApplyInput{UserID: u.ID, CompanyName: "Rink Supply Co", BusinessNumber: "BN123"})
	assert.ErrorIs(t, err, ErrOpenApplication)
}

func TestReviewApproveUpgradesRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	u := seedUser(t, db)

	app, err := svc.Apply(ctx, ApplyInput{UserID: u.ID, CompanyName: "Rink Supply Co", BusinessNumber: "BN123"})
	require.NoError(t, err)

	require.NoError(t, svc.Review(ctx, app.ID, "admin-1", StatusApproved, "verified"))

	var got Application
	require.NoError(t, db.First(&got, "id = ?", app.ID).Error)
	assert.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, "admin-1", *got.ReviewedBy)

	var usr users.User
	require.NoError(t, db.First(&usr, "id = ?", u.ID).Error)
	assert.Equal(t, users.RoleWholesale, usr.Role)

	// Already decided: a second review is rejected.
	assert.ErrorIs(t, svc.Review(ctx, app.ID, "admin-1", StatusRejected, ""), ErrNotReviewable)
}

func TestReviewRejectKeepsRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	u := seedUser(t, db)

	app, err := svc.Apply(ctx, ApplyInput{UserID: u.ID, CompanyName: "Rink Supply Co", BusinessNumber: "BN123"})
	require.NoError(t, err)

	require.NoError(t, svc.Review(ctx, app.ID, "admin-1", StatusRejected, "insufficient documentation"))

	var usr users.User
	require.NoError(t, db.First(&usr, "id = ?", u.ID).Error)
	assert.Equal(t, users.RoleCustomer, usr.Role)

	// Applicant may apply again after a rejection.
	_, err = svc.Apply(ctx, ApplyInput{UserID: u.ID, CompanyName: "Rink Supply Co", BusinessNumber: "BN123"})
	assert.NoError(t, err)
}

func TestReviewValidatesDecision(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	assert.ErrorIs(t, svc.Review(context.Background(), "any", "admin-1", "maybe", ""), ErrNotReviewable)
}
