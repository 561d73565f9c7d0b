package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbooks/internal/common"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthenticated = errors.New("authentication expired, please log in again")
	ErrDecode          = errors.New("malformed response body")
)

// APIError is returned for any non-2xx response that is not resolved by
// credential renewal.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// newAPIError builds an APIError from a response body. Bodies that are not a
// JSON object are treated as empty.
func newAPIError(status int, body []byte) *APIError {
	var payload map[string]any
	_ = json.Unmarshal(body, &payload)

	if msg, ok := payload[common.ErrorMessageField].(string); ok && msg != "" {
		return &APIError{StatusCode: status, Message: msg}
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("API error with status code %d", status)}
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
