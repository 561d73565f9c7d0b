// Package client talks to the bookstore REST API and bootstraps local storage.
//
// # Gateway
//
// Gateway sends JSON requests carrying the stored bearer token. When the API
// answers 401 it exchanges the refresh token at /auth/refresh, stores the new
// pair and retries the request exactly once. If no refresh token is stored, or
// renewal is refused, the credentials are cleared and ErrUnauthenticated is
// returned; the caller is expected to ask the user to log in again.
//
// # API
//
// RESTClient implements the typed API interface (books, orders, comments,
// login and signup) on top of the Gateway.
//
// # Errors
//
// ErrUnavailable, ErrUnauthenticated and ErrDecode are matched with
// errors.Is; other non-2xx answers surface as *APIError.
//
// # Local database
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations.
package client
