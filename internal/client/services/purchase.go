package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/orders"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
	"github.com/google/uuid"
)

var newOrderID = uuid.NewString

// Receipt is the outcome of a completed purchase.
type Receipt struct {
	Order    models.Order
	Book     models.Book
	Purchase models.Purchase
}

type PurchaseService interface {
	Purchase(ctx context.Context, u models.User, bookID models.ID, qty int) (Receipt, error)
}

type purchaseService struct {
	api          client.API
	ledger       orders.Repository
	defaultPrice int64
	log          logging.Logger
}

func NewPurchaseService(api client.API, ledger orders.Repository, defaultPrice int64, log logging.Logger) PurchaseService {
	if defaultPrice <= 0 {
		defaultPrice = models.DefaultUnitPrice
	}
	return &purchaseService{api: api, ledger: ledger, defaultPrice: defaultPrice, log: log}
}

// Purchase buys qty copies of a book for a customer. The quantity is checked against the
// current stock before anything is changed. The new stock is written first
// and the order appended to the ledger second; if the ledger write fails the
// stock is put back.
func (s *purchaseService) Purchase(ctx context.Context, u models.User, bookID models.ID, qty int) (Receipt, error) {
	if u.IsAdmin() {
		return Receipt{}, models.ErrAdminPurchase
	}
	book, err := s.api.GetBook(ctx, bookID)
	if err != nil {
		return Receipt{}, fmt.Errorf("load book %s: %w", bookID, err)
	}

	p, err := models.PlanPurchase(book, qty, s.defaultPrice)
	if err != nil {
		return Receipt{}, err
	}

	updated, err := patchBook(ctx, s.api, bookID, book, map[string]any{"stock": p.StockAfter}, func(b *models.Book) {
		b.Stock = p.StockAfter
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("update stock: %w", err)
	}

	order := models.Order{
		ID:          models.ID(newOrderID()),
		BookID:      bookID,
		UserID:      u.ID,
		Quantity:    p.Quantity,
		TotalPrice:  p.TotalPrice,
		PurchasedAt: nowFn().UTC(),
	}
	if err := s.ledger.Insert(ctx, order); err != nil {
		s.log.Error(ctx, "order not recorded, restoring stock", "book", bookID, "error", err)
		if _, rerr := s.api.PatchBook(ctx, bookID, map[string]any{"stock": p.StockBefore}); rerr != nil {
			return Receipt{}, errors.Join(fmt.Errorf("record order: %w", err), fmt.Errorf("restore stock: %w", rerr))
		}
		return Receipt{}, fmt.Errorf("record order: %w", err)
	}

	s.log.Info(ctx, "purchase completed", "book", bookID, "qty", qty, "total", p.TotalPrice)
	return Receipt{Order: order, Book: updated, Purchase: p}, nil
}
