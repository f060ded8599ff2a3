package domain

// CartLine is one product plus its requested quantity. The product is a
// snapshot taken when the line was created, so later catalog edits do not
// rewrite carts or past orders.
type CartLine struct {
	Product  Product `bson:"product" json:"product"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// Subtotal returns price multiplied by quantity for this line.
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}
