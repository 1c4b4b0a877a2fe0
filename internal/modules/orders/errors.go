package orders

import "errors"

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrReasonRequired     = errors.New("transition reason is required")
	ErrNotActionable      = errors.New("order not actionable")
)
