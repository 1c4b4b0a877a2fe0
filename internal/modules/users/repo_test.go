package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	u, err := repo.Register(ctx, RegisterInput{
		Email:     "  Sam@Example.COM ",
		Password:  "hunter2hunter2",
		FirstName: "Sam",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.True(t, strings.HasPrefix(u.ReferralCode, "HP"))
	assert.Nil(t, u.ReferredBy)

	got, err := repo.Authenticate(ctx, "sam@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.Authenticate(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterWithReferralCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	ref, err := repo.Register(ctx, RegisterInput{Email: "ref@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	u, err := repo.Register(ctx, RegisterInput{
		Email:        "new@example.com",
		Password:     "hunter2hunter2",
		ReferralCode: ref.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, u.ReferredBy)
	assert.Equal(t, ref.ID, *u.ReferredBy)

	got, err := repo.Referrer(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ref.ID, got.ID)

	// A stale or mistyped code is ignored rather than failing signup.
	loner, err := repo.Register(ctx, RegisterInput{
		Email:        "loner@example.com",
		Password:     "hunter2hunter2",
		ReferralCode: "HPDEADBEEF",
	})
	require.NoError(t, err)
	assert.Nil(t, loner.ReferredBy)

	none, err := repo.Referrer(ctx, loner.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSetCommissionRate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	u, err := repo.Register(ctx, RegisterInput{Email: "d@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	require.NoError(t, repo.SetRole(ctx, u.ID, RoleDistributor))
	require.NoError(t, repo.SetCommissionRate(ctx, u.ID, 7.5))

	got, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleDistributor, got.Role)
	require.NotNil(t, got.CommissionRate)
	assert.Equal(t, 7.5, *got.CommissionRate)
}
