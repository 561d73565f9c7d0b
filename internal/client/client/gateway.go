package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/common"
	"github.com/dmitrijs2005/gophbooks/internal/logging"
	"github.com/go-resty/resty/v2"
)

// Gateway issues JSON requests to the bookstore API on behalf of the signed-in
// user. It attaches the stored bearer token and, when the API answers 401,
// renews the credentials once through the refresh endpoint and retries.
type Gateway struct {
	http   *resty.Client
	tokens TokenStore
	log    logging.Logger

	// renewMu serializes credential renewal.
	renewMu sync.Mutex
}

func NewGateway(baseURL string, timeout time.Duration, tokens TokenStore, log logging.Logger) *Gateway {
	if log == nil {
		log = logging.NewDiscard()
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetLogger(restyLogger{log: log})

	return &Gateway{http: c, tokens: tokens, log: log}
}

// Tokens exposes the credential store the gateway reads from.
func (g *Gateway) Tokens() TokenStore { return g.tokens }

type requestOptions struct {
	headers   map[string]string
	anonymous bool
}

type RequestOption func(*requestOptions)

// WithHeader adds a request header. Caller headers take precedence over the
// gateway defaults.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.headers[key] = value }
}

func WithHeaders(h map[string]string) RequestOption {
	return func(o *requestOptions) {
		for k, v := range h {
			o.headers[k] = v
		}
	}
}

// Anonymous sends the request without a bearer token and without renewal,
// as used by login and signup.
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// Do sends method endpoint with body encoded as JSON (when non-nil) and decodes
// a successful response into out (when non-nil). A 204 or empty body leaves
// out untouched.
//
// Errors: ErrUnavailable on transport failure, ErrUnauthenticated when the
// credentials cannot be renewed, *APIError for any other non-2xx answer and
// ErrDecode when a successful body is not valid JSON.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	ro := requestOptions{headers: map[string]string{}}
	for _, opt := range opts {
		opt(&ro)
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	access := ""
	if !ro.anonymous {
		var err error
		if access, _, err = g.tokens.Tokens(ctx); err != nil {
			return err
		}
	}

	resp, err := g.send(ctx, method, endpoint, payload, buildHeaders(access, ro.headers, false))
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusUnauthorized && endpoint != common.RefreshEndpoint && !ro.anonymous {
		renewed, err := g.renew(ctx, access)
		if err != nil {
			return err
		}
		resp, err = g.send(ctx, method, endpoint, payload, buildHeaders(renewed, ro.headers, true))
		if err != nil {
			return err
		}
	}

	return decodeResponse(resp, out)
}

// buildHeaders layers the caller headers over the defaults. On a retry the
// renewed bearer overrides any caller supplied Authorization.
func buildHeaders(access string, custom map[string]string, retry bool) map[string]string {
	h := map[string]string{common.ContentTypeHeader: common.ContentTypeJSON}
	if access != "" {
		h[common.AuthorizationHeader] = bearer(access)
	}
	for k, v := range custom {
		h[k] = v
	}
	if retry {
		h[common.AuthorizationHeader] = bearer(access)
	}
	return h
}

func bearer(token string) string { return common.BearerScheme + " " + token }

func (g *Gateway) send(ctx context.Context, method, endpoint string, payload []byte, headers map[string]string) (*resty.Response, error) {
	req := g.http.R().SetContext(ctx).SetHeaders(headers)
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		g.log.Error(ctx, "request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, endpoint, err)
	}
	g.log.Debug(ctx, "request done", "method", method, "endpoint", endpoint, "status", resp.StatusCode())
	return resp, nil
}

// renew exchanges the refresh token for a new credential pair and returns the
// new access token. used is the access token the failed request carried; if
// another caller already replaced it, the stored token is reused.
func (g *Gateway) renew(ctx context.Context, used string) (string, error) {
	g.renewMu.Lock()
	defer g.renewMu.Unlock()

	access, refresh, err := g.tokens.Tokens(ctx)
	if err != nil {
		return "", err
	}
	if access != "" && access != used {
		return access, nil
	}

	if refresh == "" {
		g.log.Warn(ctx, "no refresh token, session ended")
		if err := g.tokens.ClearAccessToken(ctx); err != nil {
			return "", err
		}
		return "", ErrUnauthenticated
	}

	g.log.Info(ctx, "access token rejected, renewing")

	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}
	resp, err := g.send(ctx, http.MethodPost, common.RefreshEndpoint, payload,
		map[string]string{common.ContentTypeHeader: common.ContentTypeJSON})
	if err != nil {
		return "", err
	}

	var pair models.TokenPair
	if !resp.IsSuccess() || json.Unmarshal(resp.Body(), &pair) != nil || pair.AccessToken == "" {
		g.log.Warn(ctx, "token renewal rejected", "status", resp.StatusCode())
		if err := g.tokens.ClearTokens(ctx); err != nil {
			return "", err
		}
		return "", ErrUnauthenticated
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = refresh
	}
	if err := g.tokens.SaveTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return "", err
	}
	g.log.Info(ctx, "access token renewed")
	return pair.AccessToken, nil
}

func decodeResponse(resp *resty.Response, out any) error {
	if !resp.IsSuccess() {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	body := bytes.TrimSpace(resp.Body())
	if out == nil || resp.StatusCode() == http.StatusNoContent || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// restyLogger routes resty's internal messages to the client logger.
type restyLogger struct {
	log logging.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, v...))
}
