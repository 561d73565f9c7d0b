package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophbooks/internal/client/catalog"
	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
)

var ErrNegativeStock = errors.New("stock cannot go below zero")

// BookService covers the catalog: browsing, editing, ratings, stock and
// cover assignment. Changes to a book are allowed to its creator and to
// administrators; stock changes are administrator only.
type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id models.ID) (models.Book, error)
	ListMine(ctx context.Context, u models.User) ([]models.Book, error)

	Create(ctx context.Context, u models.User, in models.BookInput) (models.Book, error)
	Update(ctx context.Context, u models.User, id models.ID, in models.BookInput) (models.Book, error)
	Delete(ctx context.Context, u models.User, id models.ID) error
	DeleteMany(ctx context.Context, u models.User, ids []models.ID) error

	Rate(ctx context.Context, u models.User, id models.ID, score int) (models.Book, error)
	SetStock(ctx context.Context, u models.User, id models.ID, delta int) (models.Book, error)
	SetCover(ctx context.Context, u models.User, id models.ID, url string) (models.Book, error)
}

type bookService struct {
	api client.API
	log logging.Logger
}

func NewBookService(api client.API, log logging.Logger) BookService {
	return &bookService{api: api, log: log}
}

func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	return s.api.ListBooks(ctx)
}

func (s *bookService) Get(ctx context.Context, id models.ID) (models.Book, error) {
	b, err := s.api.GetBook(ctx, id)
	if client.IsStatus(err, http.StatusNotFound) {
		return models.Book{}, fmt.Errorf("book %s: %w", id, common.ErrNotFound)
	}
	return b, err
}

// ListMine returns the books created by u. Administrators see the whole
// catalog.
func (s *bookService) ListMine(ctx context.Context, u models.User) ([]models.Book, error) {
	if u.IsAdmin() {
		return s.api.ListBooks(ctx)
	}
	return s.api.ListUserBooks(ctx, u.ID)
}

func (s *bookService) Create(ctx context.Context, u models.User, in models.BookInput) (models.Book, error) {
	if err := in.Validate(); err != nil {
		return models.Book{}, err
	}
	b, err := s.api.CreateBook(ctx, in)
	if err != nil {
		return models.Book{}, fmt.Errorf("create book: %w", err)
	}
	s.log.Info(ctx, "book created", "id", b.ID, "user", u.ID)
	return b, nil
}

// editable fetches the book and checks that u may change it.
func (s *bookService) editable(ctx context.Context, u models.User, id models.ID) (models.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	if !canEdit(u, b) {
		return models.Book{}, common.ErrForbidden
	}
	return b, nil
}

func canEdit(u models.User, b models.Book) bool {
	return u.IsAdmin() || (u.ID != "" && b.CreatedBy == u.ID)
}

func (s *bookService) Update(ctx context.Context, u models.User, id models.ID, in models.BookInput) (models.Book, error) {
	if err := in.Validate(); err != nil {
		return models.Book{}, err
	}
	if _, err := s.editable(ctx, u, id); err != nil {
		return models.Book{}, err
	}
	b, err := s.api.UpdateBook(ctx, id, in)
	if err != nil {
		return models.Book{}, fmt.Errorf("update book %s: %w", id, err)
	}
	return b, nil
}

func (s *bookService) Delete(ctx context.Context, u models.User, id models.ID) error {
	if _, err := s.editable(ctx, u, id); err != nil {
		return err
	}
	if err := s.api.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	s.log.Info(ctx, "book deleted", "id", id, "user", u.ID)
	return nil
}

// DeleteMany deletes books one at a time and reports every failure. An
// authentication failure stops the batch.
func (s *bookService) DeleteMany(ctx context.Context, u models.User, ids []models.ID) error {
	var errs []error
	for _, id := range ids {
		err := s.Delete(ctx, u, id)
		if errors.Is(err, client.ErrUnauthenticated) {
			return err
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *bookService) Rate(ctx context.Context, u models.User, id models.ID, score int) (models.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	ratings, err := catalog.UpsertRating(b.Ratings, u.ID, score, nowFn().UTC())
	if err != nil {
		return models.Book{}, err
	}
	return patchBook(ctx, s.api, id, b, map[string]any{"ratings": ratings}, func(b *models.Book) {
		b.Ratings = ratings
	})
}

func (s *bookService) SetStock(ctx context.Context, u models.User, id models.ID, delta int) (models.Book, error) {
	if !u.IsAdmin() {
		return models.Book{}, common.ErrForbidden
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	stock := b.Stock + delta
	if stock < 0 {
		return models.Book{}, fmt.Errorf("%w: %d in stock, change %d", ErrNegativeStock, b.Stock, delta)
	}
	return patchBook(ctx, s.api, id, b, map[string]any{"stock": stock}, func(b *models.Book) {
		b.Stock = stock
	})
}

func (s *bookService) SetCover(ctx context.Context, u models.User, id models.ID, url string) (models.Book, error) {
	b, err := s.editable(ctx, u, id)
	if err != nil {
		return models.Book{}, err
	}
	return patchBook(ctx, s.api, id, b, map[string]any{"coverImage": url}, func(b *models.Book) {
		b.CoverImage = url
	})
}

// patchBook sends a partial update of book id, last loaded as b. When the
// reply carries no book, apply is run on b and b is returned instead.
func patchBook(ctx context.Context, api client.API, id models.ID, b models.Book, fields map[string]any, apply func(*models.Book)) (models.Book, error) {
	updated, err := api.PatchBook(ctx, id, fields)
	if err != nil {
		return models.Book{}, err
	}
	if updated.ID != "" {
		return updated, nil
	}
	if b.ID == "" {
		b.ID = id
	}
	apply(&b)
	return b, nil
}
