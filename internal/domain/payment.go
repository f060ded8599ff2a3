package domain

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentBankTransfer   PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentBankTransfer
}

// Label returns the customer-facing name stored on orders.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCashOnDelivery:
		return "着払い"
	case PaymentBankTransfer:
		return "銀行振込"
	}
	return string(m)
}
