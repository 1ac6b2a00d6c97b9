package domain

import "time"

type CartStatus string

const (
	CartOpen CartStatus = "open"
	CartPaid CartStatus = "paid"
)

type CartItem struct {
	ArtworkID string `json:"artworkId" bson:"artwork_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// Cart holds a buyer's pending purchase. A user has at most one open cart.
type Cart struct {
	ID        string     `json:"id" bson:"-"`
	UserID    string     `json:"userId" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	Status    CartStatus `json:"status" bson:"status"`
	PaidAt    *time.Time `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Quantity returns how many units of artworkID are in the cart.
func (c *Cart) Quantity(artworkID string) int {
	for _, it := range c.Items {
		if it.ArtworkID == artworkID {
			return it.Quantity
		}
	}
	return 0
}
