package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/client"
	"github.com/dmitrijs2005/gophbooks/internal/client/imagegen"
	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

// fakeAPI is an in-memory bookstore implementing client.API.
type fakeAPI struct {
	books  map[models.ID]models.Book
	orders []models.Order

	LoginRet  models.LoginResult
	LoginErr  error
	SignupErr error
	LogoutErr error
	GetErr    error
	PatchErr  error
	// PatchErrAfter fails every PATCH after the first n succeed (n >= 0).
	PatchErrAfter int
	// NoPatchBody answers PATCH like a server replying 204.
	NoPatchBody bool
	DeleteErr   map[models.ID]error
	OrdersErr   error
	ListErr     error

	LastLogin   models.LoginInput
	LastSignup  models.SignupInput
	LastCreate  models.BookInput
	Patches     []map[string]any
	Deleted     []models.ID
	LastComment string
	LogoutCalls int
	Calls       int
}

func newFakeAPI(books ...models.Book) *fakeAPI {
	f := &fakeAPI{books: map[models.ID]models.Book{}, PatchErrAfter: -1}
	for _, b := range books {
		f.books[b.ID] = b
	}
	return f
}

func (f *fakeAPI) Login(_ context.Context, in models.LoginInput) (models.LoginResult, error) {
	f.Calls++
	f.LastLogin = in
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Signup(_ context.Context, in models.SignupInput) error {
	f.Calls++
	f.LastSignup = in
	return f.SignupErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAPI) ListBooks(context.Context) ([]models.Book, error) {
	f.Calls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := []models.Book{}
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeAPI) ListUserBooks(_ context.Context, userID string) ([]models.Book, error) {
	f.Calls++
	out := []models.Book{}
	for _, b := range f.books {
		if b.CreatedBy == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetBook(_ context.Context, id models.ID) (models.Book, error) {
	f.Calls++
	if f.GetErr != nil {
		return models.Book{}, f.GetErr
	}
	b, ok := f.books[id]
	if !ok {
		return models.Book{}, &client.APIError{StatusCode: 404, Message: "not found"}
	}
	return b, nil
}

func (f *fakeAPI) CreateBook(_ context.Context, in models.BookInput) (models.Book, error) {
	f.Calls++
	f.LastCreate = in
	b := models.Book{ID: "new", Title: in.Title, Author: in.Author, Genre: in.Genre, Stock: in.Stock}
	f.books[b.ID] = b
	return b, nil
}

func (f *fakeAPI) UpdateBook(_ context.Context, id models.ID, in models.BookInput) (models.Book, error) {
	f.Calls++
	b := f.books[id]
	b.Title, b.Author, b.Genre, b.Stock = in.Title, in.Author, in.Genre, in.Stock
	f.books[id] = b
	return b, nil
}

func (f *fakeAPI) PatchBook(_ context.Context, id models.ID, fields map[string]any) (models.Book, error) {
	f.Calls++
	if f.PatchErr != nil && (f.PatchErrAfter < 0 || len(f.Patches) >= f.PatchErrAfter) {
		f.Patches = append(f.Patches, fields)
		return models.Book{}, f.PatchErr
	}
	f.Patches = append(f.Patches, fields)
	b := f.books[id]
	if v, ok := fields["stock"].(int); ok {
		b.Stock = v
	}
	if v, ok := fields["coverImage"].(string); ok {
		b.CoverImage = v
	}
	if v, ok := fields["ratings"].([]models.Rating); ok {
		b.Ratings = v
	}
	f.books[id] = b
	if f.NoPatchBody {
		return models.Book{}, nil
	}
	return b, nil
}

func (f *fakeAPI) DeleteBook(_ context.Context, id models.ID) error {
	f.Calls++
	if err := f.DeleteErr[id]; err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, id)
	delete(f.books, id)
	return nil
}

func (f *fakeAPI) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	f.Calls++
	if f.OrdersErr != nil {
		return nil, f.OrdersErr
	}
	return f.orders, nil
}

func (f *fakeAPI) AddComment(_ context.Context, bookID models.ID, text string) (models.Comment, error) {
	f.Calls++
	f.LastComment = text
	return models.Comment{ID: "c1", Text: text}, nil
}

func (f *fakeAPI) EditComment(_ context.Context, id models.ID, text string) (models.Comment, error) {
	f.Calls++
	f.LastComment = text
	return models.Comment{ID: id, Text: text}, nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, id models.ID) error {
	f.Calls++
	return nil
}

var _ client.API = (*fakeAPI)(nil)

type fakeGenerator struct {
	LastKey string
	LastReq imagegen.Request
	Ret     imagegen.Result
	Err     error
}

func (g *fakeGenerator) Generate(_ context.Context, key string, req imagegen.Request) (imagegen.Result, error) {
	g.LastKey, g.LastReq = key, req
	return g.Ret, g.Err
}

type fakeStore struct {
	LastKey  string
	LastType string
	LastData []byte
	Err      error
}

func (s *fakeStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	s.LastKey, s.LastType, s.LastData = key, contentType, data
	if s.Err != nil {
		return "", s.Err
	}
	return "https://cdn.example/" + key, nil
}

type fakeDownloader struct {
	Data []byte
	Type string
	Err  error
}

func (d *fakeDownloader) Download(context.Context, string) ([]byte, string, error) {
	return d.Data, d.Type, d.Err
}

// fixClock pins nowFn for the duration of a test.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := nowFn
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = orig })
}

func price(v int64) *int64 { return &v }
