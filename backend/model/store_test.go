package model

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"file-vault/backend/common"
	"file-vault/backend/library/objectid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func strPtr(s string) *string {
	return &s
}

func openTestStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := make(map[string]Store)

	gormStore, err := OpenGormStore(sqlite.Open(filepath.Join(t.TempDir(), "store_test.db")))
	require.NoError(t, err)
	stores["sqlite"] = gormStore

	badgerStore, err := OpenBadgerStore(InMemoryBadger)
	require.NoError(t, err)
	stores["badger"] = badgerStore

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		database := fmt.Sprintf("file_vault_test_%d", time.Now().UnixNano())
		mongoStore, err := OpenMongoStore(context.Background(), uri, database)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = mongoStore.client.Database(database).Drop(context.Background())
		})
		stores["mongo"] = mongoStore
	}

	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_InsertAndGetFile(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := objectid.New()

			f := &File{UserID: owner, Name: "a.txt", Type: FileTypeFile, ParentID: RootParent, Data: strPtr("aGVsbG8=")}
			id, err := store.InsertFile(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, id, f.ID)
			_, err = objectid.Parse(id)
			assert.NoError(t, err)
			assert.False(t, f.CreatedAt.IsZero())

			got, err := store.GetFile(ctx, id, "")
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, owner, got.UserID)
			assert.Equal(t, "a.txt", got.Name)
			assert.Equal(t, FileTypeFile, got.Type)
			assert.True(t, got.ParentID.IsRoot())
			require.NotNil(t, got.Data)
			assert.Equal(t, "aGVsbG8=", *got.Data)

			got, err = store.GetFile(ctx, id, owner)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestStore_GetFileHidesForeignRecords(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := objectid.New()
			id, err := store.InsertFile(ctx, &File{UserID: owner, Name: "dir", Type: FileTypeFolder, ParentID: RootParent})
			require.NoError(t, err)

			_, err = store.GetFile(ctx, id, objectid.New())
			assert.ErrorIs(t, err, ErrRecordNotFound)

			_, err = store.GetFile(ctx, objectid.New(), "")
			assert.ErrorIs(t, err, ErrRecordNotFound)
		})
	}
}

func TestStore_FolderHasNoData(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id, err := store.InsertFile(ctx, &File{UserID: objectid.New(), Name: "dir", Type: FileTypeFolder, ParentID: RootParent})
			require.NoError(t, err)

			got, err := store.GetFile(ctx, id, "")
			require.NoError(t, err)
			assert.Nil(t, got.Data)
			assert.True(t, got.IsFolder())
		})
	}
}

func TestStore_ListFilesByParent(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := objectid.New()
			other := objectid.New()

			folderID, err := store.InsertFile(ctx, &File{UserID: owner, Name: "dir", Type: FileTypeFolder, ParentID: RootParent})
			require.NoError(t, err)

			var inserted []string
			for i := 0; i < 25; i++ {
				id, err := store.InsertFile(ctx, &File{
					UserID:   owner,
					Name:     fmt.Sprintf("f%02d", i),
					Type:     FileTypeFile,
					ParentID: ParentID(folderID),
					Data:     strPtr("x"),
				})
				require.NoError(t, err)
				inserted = append(inserted, id)
			}
			_, err = store.InsertFile(ctx, &File{UserID: other, Name: "foreign", Type: FileTypeFile, ParentID: ParentID(folderID), Data: strPtr("x")})
			require.NoError(t, err)

			first, err := store.ListFilesByParent(ctx, owner, ParentID(folderID), 0, 20)
			require.NoError(t, err)
			require.Len(t, first, 20)
			for i, f := range first {
				assert.Equal(t, inserted[i], f.ID)
				assert.Equal(t, owner, f.UserID)
			}

			second, err := store.ListFilesByParent(ctx, owner, ParentID(folderID), 1, 20)
			require.NoError(t, err)
			require.Len(t, second, 5)
			assert.Equal(t, inserted[20], second[0].ID)
			assert.Equal(t, inserted[24], second[4].ID)

			third, err := store.ListFilesByParent(ctx, owner, ParentID(folderID), 2, 20)
			require.NoError(t, err)
			assert.NotNil(t, third)
			assert.Empty(t, third)

			root, err := store.ListFilesByParent(ctx, owner, RootParent, 0, 20)
			require.NoError(t, err)
			require.Len(t, root, 1)
			assert.Equal(t, folderID, root[0].ID)

			foreign, err := store.ListFilesByParent(ctx, other, RootParent, 0, 20)
			require.NoError(t, err)
			assert.Empty(t, foreign)
		})
	}
}

func TestStore_ListOrdersByCreationTime(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := objectid.New()
			now := time.Now().UTC().Truncate(time.Millisecond)

			// Ids are assigned in the opposite order of creation times.
			var ids []string
			for i, age := range []time.Duration{0, time.Hour, 2 * time.Hour} {
				id, err := store.InsertFile(ctx, &File{
					UserID:    owner,
					Name:      fmt.Sprintf("f%d", i),
					Type:      FileTypeFolder,
					ParentID:  RootParent,
					CreatedAt: now.Add(-age),
				})
				require.NoError(t, err)
				ids = append(ids, id)
			}

			files, err := store.ListFilesByParent(ctx, owner, RootParent, 0, 20)
			require.NoError(t, err)
			require.Len(t, files, 3)
			assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{files[0].ID, files[1].ID, files[2].ID})
		})
	}
}

func TestStore_ListHugePageIsEmpty(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := objectid.New()
			_, err := store.InsertFile(ctx, &File{UserID: owner, Name: "dir", Type: FileTypeFolder, ParentID: RootParent})
			require.NoError(t, err)

			for _, page := range []int{math.MaxInt / 20, math.MaxInt/20 + 1, math.MaxInt / 2, math.MaxInt} {
				files, err := store.ListFilesByParent(ctx, owner, RootParent, page, 20)
				require.NoError(t, err, "page %d", page)
				assert.NotNil(t, files)
				assert.Empty(t, files, "page %d", page)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		offset   int
		limit    int
		ok       bool
	}{
		{"first page", 0, 20, 0, 20, true},
		{"second page", 1, 20, 20, 20, true},
		{"negative page", -5, 20, 0, 20, true},
		{"default page size", 2, 0, 2 * common.ItemsPerPage, common.ItemsPerPage, true},
		{"largest page that fits", math.MaxInt / 20, 20, (math.MaxInt / 20) * 20, 20, true},
		{"overflowing page", math.MaxInt/20 + 1, 20, 0, 20, false},
		{"max int page", math.MaxInt, 20, 0, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit, ok := pageBounds(tt.page, tt.pageSize)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.limit, limit)
			if ok {
				assert.Equal(t, tt.offset, offset)
				assert.GreaterOrEqual(t, offset, 0)
			}
		})
	}
}

func TestStore_Users(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := &User{Email: "bob@example.com"}
			require.NoError(t, store.InsertUser(ctx, u))
			require.NotEmpty(t, u.ID)

			got, err := store.GetUser(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)
			assert.Equal(t, "bob@example.com", got.Email)

			_, err = store.GetUser(ctx, objectid.New())
			assert.ErrorIs(t, err, ErrRecordNotFound)
		})
	}
}
