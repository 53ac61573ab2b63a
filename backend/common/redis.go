package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient connects to RedisConnString. Redis stays disabled, and
// sessions fall back to the in-process store, when it is unset.
func InitRedisClient() (err error) {
	if RedisConnString == "" {
		RedisEnabled = false
		SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	SysLog("Redis is enabled")
	opt, err := redis.ParseURL(RedisConnString)
	if err != nil {
		return err
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err = RDB.Ping(ctx).Result(); err != nil {
		return err
	}
	RedisEnabled = true
	return nil
}

func CloseRedisClient() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
