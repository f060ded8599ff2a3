package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrNoCheckout         = errors.New("no checkout in progress")
	ErrNotAtConfirmation  = errors.New("checkout has not reached confirmation")
	ErrNoPaymentMethod    = errors.New("no payment method selected")
	ErrInvalidPayment     = errors.New("unknown payment method")
	ErrSignInRequired     = errors.New("sign-in required to place an order")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
)

// ValidationError reports which required shipping fields are still empty.
// The flow stays in the shipping step until it clears.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "required shipping fields are missing"
}
