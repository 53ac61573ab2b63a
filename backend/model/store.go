package model

import (
	"context"
	"errors"
	"math"

	"file-vault/backend/common"
)

// ErrRecordNotFound is returned by point lookups that match nothing,
// including records owned by someone other than the requested owner.
var ErrRecordNotFound = errors.New("record not found")

// Store persists users and file records. Implementations assign ids with
// objectid.New and list children in insertion order.
type Store interface {
	// InsertFile assigns a fresh id and creation time, persists f and
	// returns the id.
	InsertFile(ctx context.Context, f *File) (string, error)
	// GetFile returns the record with id. A non-empty ownerID hides records
	// owned by anyone else.
	GetFile(ctx context.Context, id string, ownerID string) (*File, error)
	// ListFilesByParent returns at most pageSize children of parentID owned
	// by ownerID, skipping page*pageSize of them.
	ListFilesByParent(ctx context.Context, ownerID string, parentID ParentID, page int, pageSize int) ([]*File, error)

	GetUser(ctx context.Context, id string) (*User, error)
	InsertUser(ctx context.Context, u *User) error

	Close() error
}

// pageBounds turns a page number into an offset and limit. ok is false when
// the offset would not fit in an int; such a page is always empty.
func pageBounds(page int, pageSize int) (offset int, limit int, ok bool) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = common.ItemsPerPage
	}
	if page > math.MaxInt/pageSize {
		return 0, pageSize, false
	}
	return page * pageSize, pageSize, true
}
