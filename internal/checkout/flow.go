package checkout

import (
	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepConfirm  Step = "confirm"
)

// Flow is the checkout state machine for one session: shipping info, then
// payment method, then confirmation. Forward movement passes a validation
// gate; one step back is always allowed. Flow is pure state, not safe for
// concurrent use; the Manager serializes access.
type Flow struct {
	step    Step
	info    domain.CustomerInfo
	payment domain.PaymentMethod
}

func NewFlow() *Flow {
	return &Flow{step: StepShipping}
}

func (f *Flow) Step() Step {
	return f.step
}

func (f *Flow) CustomerInfo() domain.CustomerInfo {
	return f.info
}

func (f *Flow) Payment() domain.PaymentMethod {
	return f.payment
}

// SetCustomerInfo replaces the shipping fields. Validation happens at the
// step transition, not here, so partially filled forms are fine.
func (f *Flow) SetCustomerInfo(info domain.CustomerInfo) {
	f.info = info
}

// SelectPayment records the payment method. Re-selecting replaces the
// previous choice; nothing else resets.
func (f *Flow) SelectPayment(method domain.PaymentMethod) error {
	if !method.Valid() {
		return ErrInvalidPayment
	}
	f.payment = method
	return nil
}

// ShowBankDetails reports whether the transfer instructions are visible.
func (f *Flow) ShowBankDetails() bool {
	return f.payment == domain.PaymentBankTransfer
}

// Next advances one step if the current step's gate passes; otherwise the
// flow stays put and the gate's error describes what is missing.
func (f *Flow) Next() error {
	switch f.step {
	case StepShipping:
		if missing := missingShippingFields(f.info); len(missing) > 0 {
			return &ValidationError{MissingFields: missing}
		}
		f.step = StepPayment
	case StepPayment:
		if f.payment == "" {
			return ErrNoPaymentMethod
		}
		f.step = StepConfirm
	case StepConfirm:
		// Already at the last step; finalize is a separate action.
	}
	return nil
}

// Back moves one step toward shipping. At the first step it is a no-op.
func (f *Flow) Back() {
	switch f.step {
	case StepConfirm:
		f.step = StepPayment
	case StepPayment:
		f.step = StepShipping
	}
}

// BuildOrder assembles the order record from the flow state and the cart.
// The caller checks preconditions (confirmation reached, identity present,
// cart non-empty) before calling.
func (f *Flow) BuildOrder(identity *auth.Identity, lines []domain.CartLine, total int64) *domain.Order {
	return &domain.Order{
		UserID:         identity.UID,
		UserEmail:      identity.Email,
		CustomerInfo:   f.info,
		Items:          lines,
		Total:          total,
		PaymentMethod:  f.payment.Label(),
		Status:         domain.OrderStatusPending,
		TrackingNumber: "",
	}
}

func missingShippingFields(info domain.CustomerInfo) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", info.Name},
		{"phone", info.Phone},
		{"postalCode", info.PostalCode},
		{"prefecture", info.Prefecture},
		{"city", info.City},
		{"address", info.Address},
	}
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}
