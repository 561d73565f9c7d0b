// Package claims reads the payload of bearer tokens issued by the bookstore
// API. Signatures are not verified: the client only uses the claims to show
// who is signed in, and the server remains the authority on every request.
package claims

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("malformed token")

type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Parse extracts the user id, role and expiry from token. The user id is read
// from "userId", then "sub", then "email"; the role from "role", then "auth".
func Parse(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	c := Claims{
		UserID: firstString(mc, "userId", "sub", "email"),
		Role:   firstString(mc, "role", "auth"),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := mc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
