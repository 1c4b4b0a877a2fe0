package discounts

import "errors"

// Each rejection carries a distinct, user-facing reason.
var (
	ErrCodeNotFound     = errors.New("discount code not found")
	ErrCodeInactive     = errors.New("discount code is not active")
	ErrCodeNotStarted   = errors.New("discount code is not valid yet")
	ErrCodeExpired      = errors.New("discount code has expired")
	ErrCodeExhausted    = errors.New("discount code usage limit reached")
	ErrOrderNotEligible = errors.New("order status does not allow discounts")
	ErrAlreadyApplied   = errors.New("a discount has already been applied to this order")
	ErrMinOrderNotMet   = errors.New("order total is below the code minimum")
	ErrZeroDiscount     = errors.New("discount amount would be zero")
)
