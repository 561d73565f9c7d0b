// Package common contains shared constants and sentinel errors used across
// the gophbooks client packages.
package common

// HTTP header names and the JSON field the bookstore API uses for
// human-readable error messages.
const (
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
	BearerScheme        = "Bearer"
	ErrorMessageField   = "Error Message"
)

// RefreshEndpoint is the credential renewal endpoint. Requests to it are never
// themselves subject to renewal.
const RefreshEndpoint = "/auth/refresh"

// Keys of the local metadata store.
const (
	MetaAccessToken  = "access_token"
	MetaRefreshToken = "refresh_token"
	MetaUserID       = "user_id"
	MetaUserRole     = "user_role"
	MetaImageAPIKey  = "openai_api_key"
)

// Roles recognised by the storefront. The API reports "ADMIN" or "MASTER" for
// administrators; both collapse to RoleAdmin on the client.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
