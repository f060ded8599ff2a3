package domain

import "time"

// Product is catalog data as stored in the products collection.
// Prices are integer yen; there are no fractional amounts.
type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       int64     `bson:"price" json:"price"`
	ImageURL    string    `bson:"image_url" json:"imageUrl,omitempty"`
	Features    []string  `bson:"features" json:"features"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}
