package orders

// Order statuses. Cancelled and refunded are terminal.
const (
	StatusCreated        = "created"
	StatusPendingPayment = "pending_payment"
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusDelivered      = "delivered"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusRefunded       = "refunded"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// transitions is the single source of truth for legal status changes.
// Handlers never re-validate status strings on their own.
var transitions = map[string][]string{
	StatusCreated:        {StatusPendingPayment, StatusProcessing, StatusCancelled},
	StatusPendingPayment: {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled, StatusRefunded},
	StatusShipped:        {StatusDelivered, StatusCompleted, StatusRefunded},
	StatusDelivered:      {StatusCompleted, StatusRefunded},
	StatusCompleted:      {StatusRefunded},
	StatusCancelled:      {},
	StatusRefunded:       {},
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is an allowed move.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DiscountApplicable reports whether a discount may still be applied to an
// order in the given status (pre-payment only).
func DiscountApplicable(status string) bool {
	return status == StatusCreated || status == StatusPendingPayment
}

// CommissionEligible reports whether an order in the given status qualifies
// for commission calculation.
func CommissionEligible(status string) bool {
	return status == StatusShipped || status == StatusDelivered || status == StatusCompleted
}
