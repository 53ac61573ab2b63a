package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"file-vault/backend/library/objectid"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// InMemoryBadger opens a badger store without touching disk.
const InMemoryBadger = ":memory:"

// Key layout:
//
//	file/<id>                     BSON fileDocument
//	child/<user>/<parent>/<ts>/<id>   empty, one per record
//	user/<id>                         BSON userDocument
//
// <ts> is the creation time in zero-padded unix nanoseconds, so iterating a
// child prefix yields records in creation order with the id breaking ties.
const (
	filePrefix  = "file/"
	childPrefix = "child/"
	userPrefix  = "user/"
)

func fileKey(id string) []byte {
	return []byte(filePrefix + id)
}

func childrenPrefix(ownerID string, parentID ParentID) []byte {
	parent := string(parentID)
	if parentID.IsRoot() {
		parent = objectid.Root
	}
	return []byte(childPrefix + ownerID + "/" + parent + "/")
}

// createdAtWidth fits any non-negative int64 nanosecond timestamp.
const createdAtWidth = 20

func childKey(f *File) []byte {
	ts := fmt.Sprintf("%0*d", createdAtWidth, f.CreatedAt.UnixNano())
	return append(childrenPrefix(f.UserID, f.ParentID), ts+"/"+f.ID...)
}

func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

// BadgerStore is an embedded single-node store.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == InMemoryBadger {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) InsertFile(_ context.Context, f *File) (string, error) {
	f.ID = objectid.New()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	doc, err := newFileDocument(f)
	if err != nil {
		return "", err
	}
	value, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode file: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(fileKey(f.ID), value); err != nil {
			return err
		}
		return txn.Set(childKey(f), []byte{})
	})
	if err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	return f.ID, nil
}

func getFile(txn *badger.Txn, id string) (*File, error) {
	item, err := txn.Get(fileKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	var doc fileDocument
	err = item.Value(func(val []byte) error {
		return bson.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("decode file %s: %w", id, err)
	}
	return doc.toFile(), nil
}

func (s *BadgerStore) GetFile(_ context.Context, id string, ownerID string) (*File, error) {
	var f *File
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		f, err = getFile(txn, id)
		return err
	})
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	if ownerID != "" && f.UserID != ownerID {
		return nil, ErrRecordNotFound
	}
	return f, nil
}

func (s *BadgerStore) ListFilesByParent(ctx context.Context, ownerID string, parentID ParentID, page int, pageSize int) ([]*File, error) {
	offset, limit, ok := pageBounds(page, pageSize)
	files := make([]*File, 0, limit)
	if !ok {
		return files, nil
	}
	prefix := childrenPrefix(ownerID, parentID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(files) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if skipped < offset {
				skipped++
				continue
			}
			id := string(it.Item().Key()[len(prefix)+createdAtWidth+1:])
			f, err := getFile(txn, id)
			if err != nil {
				return err
			}
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", parentID, err)
	}
	return files, nil
}

func (s *BadgerStore) GetUser(_ context.Context, id string) (*User, error) {
	var doc userDocument
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &User{ID: doc.ID.Hex(), Email: doc.Email, CreatedAt: doc.CreatedAt}, nil
}

func (s *BadgerStore) InsertUser(_ context.Context, u *User) error {
	if u.ID == "" {
		u.ID = objectid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	oid, err := objectid.ParseObjectID(u.ID)
	if err != nil {
		return fmt.Errorf("user id %q: %w", u.ID, err)
	}
	value, err := bson.Marshal(userDocument{ID: oid, Email: u.Email, CreatedAt: u.CreatedAt})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(u.ID), value)
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
