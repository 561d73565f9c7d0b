package models

import "time"

// Order is an immutable purchase record. TotalPrice is Quantity times the
// unit price at purchase time.
type Order struct {
	ID          ID        `json:"id"`
	BookID      ID        `json:"bookId"`
	UserID      string    `json:"userId"`
	Quantity    int       `json:"quantity"`
	TotalPrice  int64     `json:"totalPrice"`
	PurchasedAt time.Time `json:"purchaseDate"`
}
