package common

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Version = "v0.0.0"

// ItemsPerPage is the fixed page size of file listings.
var ItemsPerPage = 20

var (
	SQLitePath    = "data/file-vault.db"
	SQLDSN        = ""
	MongoURI      = ""
	MongoDatabase = "files_manager"
	BadgerPath    = ""
)

var (
	RedisConnString = os.Getenv("REDIS_CONN_STRING")
	RedisEnabled    = true
	RDB             *redis.Client
)

// SessionTTL is only used when seeding the bootstrap session; sessions
// issued by the login service carry their own expiration.
var SessionTTL = 24 * time.Hour

var BootstrapToken = ""

var (
	GlobalApiRateLimitRPS   = 50.0
	GlobalApiRateLimitBurst = 100
)

// TokenHeader carries the opaque session token on every authenticated request.
const TokenHeader = "X-Token"

func init() {
	if RedisConnString == "" {
		RedisEnabled = false
	}
}
