package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
)

// API is the typed surface of the bookstore REST service.
type API interface {
	Login(ctx context.Context, in models.LoginInput) (models.LoginResult, error)
	Signup(ctx context.Context, in models.SignupInput) error
	Logout(ctx context.Context) error

	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id models.ID) (models.Book, error)
	CreateBook(ctx context.Context, in models.BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, id models.ID, in models.BookInput) (models.Book, error)
	PatchBook(ctx context.Context, id models.ID, fields map[string]any) (models.Book, error)
	DeleteBook(ctx context.Context, id models.ID) error
	ListUserBooks(ctx context.Context, userID string) ([]models.Book, error)

	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)

	AddComment(ctx context.Context, bookID models.ID, text string) (models.Comment, error)
	EditComment(ctx context.Context, commentID models.ID, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID models.ID) error
}

// RESTClient implements API over a Gateway.
type RESTClient struct {
	gw *Gateway
}

func NewRESTClient(gw *Gateway) *RESTClient {
	return &RESTClient{gw: gw}
}

func path(prefix string, segment string) string {
	return prefix + "/" + url.PathEscape(segment)
}

func (c *RESTClient) Login(ctx context.Context, in models.LoginInput) (models.LoginResult, error) {
	var res models.LoginResult
	if err := c.gw.Do(ctx, http.MethodPost, "/login", in, &res, Anonymous()); err != nil {
		return models.LoginResult{}, err
	}
	if res.AccessToken == "" {
		return models.LoginResult{}, fmt.Errorf("%w: login response has no access token", ErrDecode)
	}
	if err := c.gw.Tokens().SaveTokens(ctx, res.AccessToken, res.RefreshToken); err != nil {
		return models.LoginResult{}, err
	}
	return res, nil
}

func (c *RESTClient) Signup(ctx context.Context, in models.SignupInput) error {
	return c.gw.Do(ctx, http.MethodPost, "/user/signup", in, nil, Anonymous())
}

// Logout forgets the stored credentials. The API has no logout endpoint.
func (c *RESTClient) Logout(ctx context.Context) error {
	return c.gw.Tokens().ClearTokens(ctx)
}

func (c *RESTClient) ListBooks(ctx context.Context) ([]models.Book, error) {
	return c.listBooks(ctx, "/book")
}

func (c *RESTClient) ListUserBooks(ctx context.Context, userID string) ([]models.Book, error) {
	return c.listBooks(ctx, path("/user/book", userID))
}

func (c *RESTClient) listBooks(ctx context.Context, endpoint string) ([]models.Book, error) {
	var books []models.Book
	if err := c.gw.Do(ctx, http.MethodGet, endpoint, nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	for i := range books {
		books[i].Normalize()
	}
	return books, nil
}

func (c *RESTClient) GetBook(ctx context.Context, id models.ID) (models.Book, error) {
	return c.bookRequest(ctx, http.MethodGet, path("/book", id.String()), nil)
}

func (c *RESTClient) CreateBook(ctx context.Context, in models.BookInput) (models.Book, error) {
	return c.bookRequest(ctx, http.MethodPost, "/book", in)
}

func (c *RESTClient) UpdateBook(ctx context.Context, id models.ID, in models.BookInput) (models.Book, error) {
	return c.bookRequest(ctx, http.MethodPut, path("/book", id.String()), in)
}

// PatchBook sends a partial update, e.g. {"stock": 2} or {"coverImage": url}.
func (c *RESTClient) PatchBook(ctx context.Context, id models.ID, fields map[string]any) (models.Book, error) {
	return c.bookRequest(ctx, http.MethodPatch, path("/book", id.String()), fields)
}

func (c *RESTClient) bookRequest(ctx context.Context, method, endpoint string, body any) (models.Book, error) {
	var b models.Book
	if err := c.gw.Do(ctx, method, endpoint, body, &b); err != nil {
		return models.Book{}, err
	}
	b.Normalize()
	return b, nil
}

func (c *RESTClient) DeleteBook(ctx context.Context, id models.ID) error {
	return c.gw.Do(ctx, http.MethodDelete, path("/book", id.String()), nil, nil)
}

func (c *RESTClient) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.gw.Do(ctx, http.MethodGet, path("/user/order", userID), nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

type commentBody struct {
	Description string `json:"description"`
}

func (c *RESTClient) AddComment(ctx context.Context, bookID models.ID, text string) (models.Comment, error) {
	return c.commentRequest(ctx, http.MethodPost, path("/comment", bookID.String()), text)
}

func (c *RESTClient) EditComment(ctx context.Context, commentID models.ID, text string) (models.Comment, error) {
	return c.commentRequest(ctx, http.MethodPatch, path("/comment", commentID.String()), text)
}

func (c *RESTClient) commentRequest(ctx context.Context, method, endpoint, text string) (models.Comment, error) {
	var res models.CommentResponse
	if err := c.gw.Do(ctx, method, endpoint, commentBody{Description: text}, &res); err != nil {
		return models.Comment{}, err
	}
	return res.Comment(), nil
}

func (c *RESTClient) DeleteComment(ctx context.Context, commentID models.ID) error {
	return c.gw.Do(ctx, http.MethodDelete, path("/comment", commentID.String()), nil, nil)
}

var _ API = (*RESTClient)(nil)
