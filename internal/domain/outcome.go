package domain

import "time"

// Outcome is the result of an operation that reports success with a message
// instead of returning an entity.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutRecord describes a committed checkout.
type CheckoutRecord struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	CartID     string             `json:"cartId"`
	Items      []EnrichedCartItem `json:"items"`
	TotalPrice int64              `json:"totalPrice"`
	CreatedAt  time.Time          `json:"createdAt"`
}
