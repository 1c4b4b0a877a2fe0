package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusCreated, StatusPendingPayment, true},
		{StatusCreated, StatusProcessing, true},
		{StatusCreated, StatusCancelled, true},
		{StatusCreated, StatusShipped, false},
		{StatusPendingPayment, StatusProcessing, true},
		{StatusPendingPayment, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusRefunded, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCompleted, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusCompleted, true},
		{StatusCompleted, StatusRefunded, true},
		{StatusCompleted, StatusShipped, false},
		// Terminal states go nowhere.
		{StatusCancelled, StatusCreated, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusRefunded, StatusCompleted, false},
		// Unknown statuses are never valid on either side.
		{"bogus", StatusShipped, false},
		{StatusCreated, "bogus", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusCreated, StatusPendingPayment, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCompleted, StatusCancelled, StatusRefunded,
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Shipped"))
	assert.False(t, ValidStatus("returned"))
}

func TestDiscountApplicable(t *testing.T) {
	assert.True(t, DiscountApplicable(StatusCreated))
	assert.True(t, DiscountApplicable(StatusPendingPayment))
	assert.False(t, DiscountApplicable(StatusProcessing))
	assert.False(t, DiscountApplicable(StatusShipped))
	assert.False(t, DiscountApplicable(StatusCancelled))
}

func TestCommissionEligible(t *testing.T) {
	assert.True(t, CommissionEligible(StatusShipped))
	assert.True(t, CommissionEligible(StatusDelivered))
	assert.True(t, CommissionEligible(StatusCompleted))
	assert.False(t, CommissionEligible(StatusProcessing))
	assert.False(t, CommissionEligible(StatusRefunded))
}
