package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAdminPurchase     = errors.New("administrators cannot buy books")
)

// Purchase is the outcome of buying Quantity copies of a book.
type Purchase struct {
	Quantity    int
	UnitPrice   int64
	TotalPrice  int64
	StockBefore int
	StockAfter  int
}

// PlanPurchase checks qty against the book stock and prices the purchase.
// Nothing is mutated; a rejected plan leaves the stock as it was.
func PlanPurchase(b Book, qty int, defaultPrice int64) (Purchase, error) {
	if qty < 1 {
		return Purchase{}, ErrInvalidQuantity
	}
	if qty > b.Stock {
		return Purchase{}, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, qty, b.Stock)
	}
	unit := b.UnitPrice(defaultPrice)
	return Purchase{
		Quantity:    qty,
		UnitPrice:   unit,
		TotalPrice:  int64(qty) * unit,
		StockBefore: b.Stock,
		StockAfter:  b.Stock - qty,
	}, nil
}
