// Package session maps opaque auth tokens to user ids.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnauthorized means the token is absent, unknown or expired.
var ErrUnauthorized = errors.New("unauthorized")

const keyPrefix = "auth_"

// Key returns the store key holding the user id for token.
func Key(token string) string {
	return keyPrefix + token
}

// Resolver looks tokens up without refreshing their lifetime.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the raw user id bound to token. The id is not validated
// here; callers still parse it and check the user exists.
func (r *Resolver) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	userID, err := r.store.Get(ctx, Key(token))
	if errors.Is(err, ErrKeyNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	if userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// Issue binds token to userID for ttl. Only bootstrap seeding and tests use
// it; regular sessions are written by the login service.
func (r *Resolver) Issue(ctx context.Context, token string, userID string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty session token")
	}
	return r.store.Set(ctx, Key(token), userID, ttl)
}
