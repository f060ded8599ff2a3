package domain

// CustomerInfo is the shipping destination collected during checkout.
// Building is the only optional field.
type CustomerInfo struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Prefecture string `bson:"prefecture" json:"prefecture"`
	City       string `bson:"city" json:"city"`
	Address    string `bson:"address" json:"address"`
	Building   string `bson:"building" json:"building,omitempty"`
}
