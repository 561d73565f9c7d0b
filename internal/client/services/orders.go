package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/client/repositories/orders"
	"github.com/dmitrijs2005/gophbooks/internal/client/stats"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
)

// OrderService reads the order ledger: a user's purchase history and the
// store-wide sales report.
type OrderService interface {
	History(ctx context.Context, u models.User) ([]models.Order, error)
	SalesReport(ctx context.Context, u models.User) (stats.Report, error)
}

type orderService struct {
	api    client.API
	ledger orders.Repository
	log    logging.Logger
}

func NewOrderService(api client.API, ledger orders.Repository, log logging.Logger) OrderService {
	return &orderService{api: api, ledger: ledger, log: log}
}

// History merges the orders the API knows for u into the ledger and returns
// u's orders newest first. When the API cannot be reached the local ledger
// is used as is.
func (s *orderService) History(ctx context.Context, u models.User) ([]models.Order, error) {
	remote, err := s.api.ListUserOrders(ctx, u.ID)
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		return nil, err
	case err != nil:
		s.log.Warn(ctx, "order sync failed, using local ledger", "error", err)
	default:
		if err := s.ledger.Upsert(ctx, ownedBy(remote, u.ID)); err != nil {
			s.log.Warn(ctx, "could not cache remote orders", "error", err)
		}
	}

	local, err := s.ledger.GetByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return stats.UserHistory(local, u.ID), nil
}

// ownedBy drops records the ledger cannot hold and fills in a missing user
// id; the endpoint is already scoped to one user.
func ownedBy(list []models.Order, userID string) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if o.ID == "" || o.Quantity < 1 {
			continue
		}
		if o.UserID == "" {
			o.UserID = userID
		}
		out = append(out, o)
	}
	return out
}

func (s *orderService) SalesReport(ctx context.Context, u models.User) (stats.Report, error) {
	if !u.IsAdmin() {
		return stats.Report{}, common.ErrForbidden
	}
	books, err := s.api.ListBooks(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	all, err := s.ledger.GetAll(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Compute(books, all), nil
}
