package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Label returns the customer-facing Japanese name for a status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "処理中"
	case OrderStatusProcessing:
		return "発送準備中"
	case OrderStatusShipped:
		return "発送済み"
	case OrderStatusDelivered:
		return "配達完了"
	case OrderStatusCancelled:
		return "キャンセル"
	}
	return string(s)
}

// Order is the terminal artifact of a completed checkout. It is written
// exactly once; afterwards only Status, TrackingNumber and UpdatedAt may
// change, through the admin fulfillment path.
type Order struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	UserID         string       `bson:"user_id" json:"userId"`
	UserEmail      string       `bson:"user_email" json:"userEmail"`
	CustomerInfo   CustomerInfo `bson:"customer_info" json:"customerInfo"`
	Items          []CartLine   `bson:"items" json:"items"`
	Total          int64        `bson:"total" json:"total"`
	PaymentMethod  string       `bson:"payment_method" json:"paymentMethod"`
	Status         OrderStatus  `bson:"status" json:"status"`
	TrackingNumber string       `bson:"tracking_number" json:"trackingNumber"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updatedAt"`
}
