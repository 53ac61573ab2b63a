package service

import (
	"context"
	"fmt"
	"time"

	"file-vault/backend/common"
	apperrors "file-vault/backend/common/errors"
	"file-vault/backend/model"

	"github.com/google/uuid"
)

// SessionIssuer can both resolve and write sessions.
type SessionIssuer interface {
	SessionResolver
	Issue(ctx context.Context, token string, userID string, ttl time.Duration) error
}

// EnsureBootstrapSession makes token usable on a fresh deployment: if it does
// not already resolve to a live user, a bootstrap user is created and the
// token is bound to it for ttl. It returns the user id behind the token.
func EnsureBootstrapSession(ctx context.Context, store model.Store, sessions SessionIssuer, token string, ttl time.Duration) (string, error) {
	user, err := NewFileService(store, sessions).Authenticate(ctx, token)
	if err == nil {
		return user.ID, nil
	}
	if !apperrors.IsErrorCode(err, apperrors.ErrUnauthorized) {
		return "", fmt.Errorf("resolve bootstrap session: %w", err)
	}

	user = &model.User{Email: "bootstrap-" + uuid.NewString() + "@localhost"}
	if err := store.InsertUser(ctx, user); err != nil {
		return "", fmt.Errorf("create bootstrap user: %w", err)
	}
	if err := sessions.Issue(ctx, token, user.ID, ttl); err != nil {
		return "", fmt.Errorf("issue bootstrap session: %w", err)
	}
	common.SysLog("bootstrap user " + user.ID + " created, session valid for " + ttl.String())
	return user.ID, nil
}
