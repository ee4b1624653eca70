package domain

import "time"

// Cart holds the not-yet-ordered items of one identity. Exactly one of
// UserID and SessionID is set.
type Cart struct {
	CartID    int64      `json:"cartId"`
	UserID    *int64     `json:"userId"`
	SessionID *string    `json:"sessionId"`
	CreatedAt time.Time  `json:"createdAt"`
	Items     []CartItem `json:"items"`
}

// CartItem is one line of a cart. Price is snapshotted at add time and
// refreshed to the car's current price on a repeated add.
type CartItem struct {
	CartItemID int64 `json:"cartItemId"`
	CartID     int64 `json:"cartId"`
	CarID      int64 `json:"carId"`
	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	Car        *Car  `json:"car,omitempty"`
}
