package metadata

import (
	"context"
)

// Repository is the local key/value store holding the session: bearer and
// refresh tokens, the signed-in user and the image generator API key.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// GetString is a convenience over Get for text values. A missing key yields "".
func GetString(ctx context.Context, r Repository, key string) (string, error) {
	v, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SetString stores value under key, deleting the key when value is empty.
func SetString(ctx context.Context, r Repository, key, value string) error {
	if value == "" {
		return r.Delete(ctx, key)
	}
	return r.Set(ctx, key, []byte(value))
}

// DeleteKeys removes every listed key, stopping at the first failure.
func DeleteKeys(ctx context.Context, r Repository, keys ...string) error {
	for _, k := range keys {
		if err := r.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
