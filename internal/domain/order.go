package domain

import "time"

// Order is an immutable checkout snapshot. Rating fields are the only
// part that mutates after creation; a rated order can no longer be
// canceled.
type Order struct {
	OrderID       int64       `json:"orderId"`
	UserID        int64       `json:"userId"`
	FullName      string      `json:"fullName"`
	Email         *string     `json:"email"`
	Phone         *string     `json:"phone"`
	Address       *string     `json:"address"`
	Total         int64       `json:"total"`
	Rating        *int        `json:"rating"`
	RatingComment *string     `json:"ratingComment"`
	RatedAt       *time.Time  `json:"ratedAt"`
	CreatedAt     time.Time   `json:"createdAt"`
	Items         []OrderItem `json:"items"`
	User          *User       `json:"user,omitempty"`
}

// OrderItem captures price and quantity at placement time, decoupled
// from later catalog changes.
type OrderItem struct {
	OrderItemID int64 `json:"orderItemId"`
	OrderID     int64 `json:"orderId"`
	CarID       int64 `json:"carId"`
	Price       int64 `json:"price"`
	Quantity    int   `json:"quantity"`
	Car         *Car  `json:"car,omitempty"`
}
