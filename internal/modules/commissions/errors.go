package commissions

import "errors"

var (
	ErrOrderNotEligible = errors.New("order status does not qualify for commission")
	ErrNotPayable       = errors.New("commission is not in a payable state")
)
