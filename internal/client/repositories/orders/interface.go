package orders

import (
	"context"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

type Repository interface {
	// Insert appends a new order. Inserting an existing id fails.
	Insert(ctx context.Context, o models.Order) error

	// Upsert adds the orders the ledger does not hold yet, in a single
	// transaction. Recorded orders are never changed.
	Upsert(ctx context.Context, orders []models.Order) error

	GetAll(ctx context.Context) ([]models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)

	Clear(ctx context.Context) error
}
