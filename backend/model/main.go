package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"file-vault/backend/common"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
)

// OpenStore picks the backend from configuration: MongoDB when MONGO_URI is
// set, Badger when BADGER_PATH is set, otherwise SQL (MySQL with SQL_DSN,
// SQLite at SQLITE_PATH).
func OpenStore(ctx context.Context) (Store, error) {
	switch {
	case common.MongoURI != "":
		common.SysLog("Using MongoDB database " + common.MongoDatabase)
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return OpenMongoStore(ctx, common.MongoURI, common.MongoDatabase)
	case common.BadgerPath != "":
		common.SysLog("Using Badger store at " + common.BadgerPath)
		return OpenBadgerStore(common.BadgerPath)
	case common.SQLDSN != "":
		common.SysLog("Using MySQL database")
		return OpenGormStore(mysql.Open(common.SQLDSN))
	default:
		common.SysLog("SQL_DSN not set, using SQLite as database: " + common.SQLitePath)
		if dir := filepath.Dir(common.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory %s: %w", dir, err)
			}
		}
		return OpenGormStore(sqlite.Open(common.SQLitePath))
	}
}
