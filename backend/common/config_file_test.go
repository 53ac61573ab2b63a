package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIniConfig_UppercasesKeysAcrossSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := "port = 4000\nsqlite_path=/tmp/vault.db\n\n[redis]\nREDIS_CONN_STRING = redis://localhost:6379\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configMap, err := parseIniConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "4000", configMap["PORT"])
	assert.Equal(t, "/tmp/vault.db", configMap["SQLITE_PATH"])
	assert.Equal(t, "redis://localhost:6379", configMap["REDIS_CONN_STRING"])
}

func TestEnsureConfigFile_WritesDefaultsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.ini")
	require.NoError(t, ensureConfigFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigTemplate, string(raw))

	require.NoError(t, os.WriteFile(path, []byte("PORT=5000\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PORT=5000\n", string(raw), "an existing file is left alone")
}

func TestApplyConfigMap(t *testing.T) {
	oldPort, oldTTL, oldRPS, oldBurst, oldMongo, oldRedis := *Port, SessionTTL, GlobalApiRateLimitRPS, GlobalApiRateLimitBurst, MongoURI, RedisConnString
	t.Cleanup(func() {
		*Port, SessionTTL, GlobalApiRateLimitRPS, GlobalApiRateLimitBurst, MongoURI, RedisConnString = oldPort, oldTTL, oldRPS, oldBurst, oldMongo, oldRedis
	})

	err := applyConfigMap(map[string]string{
		"PORT":              "8080",
		"SESSION_TTL":       "3600",
		"RATE_LIMIT_RPS":    "2.5",
		"RATE_LIMIT_BURST":  "7",
		"MONGO_URI":         "mongodb://localhost:27017",
		"REDIS_CONN_STRING": "redis://localhost:6379/2",
	})
	require.NoError(t, err)
	assert.Equal(t, 8080, *Port)
	assert.Equal(t, time.Hour, SessionTTL)
	assert.Equal(t, 2.5, GlobalApiRateLimitRPS)
	assert.Equal(t, 7, GlobalApiRateLimitBurst)
	assert.Equal(t, "mongodb://localhost:27017", MongoURI)
	assert.Equal(t, "redis://localhost:6379/2", RedisConnString)

	require.NoError(t, applyConfigMap(map[string]string{"SESSION_TTL": "90m"}))
	assert.Equal(t, 90*time.Minute, SessionTTL)

	assert.Error(t, applyConfigMap(map[string]string{"PORT": "eighty"}))
	assert.Error(t, applyConfigMap(map[string]string{"SESSION_TTL": "soon"}))
}

func TestInitRedisClient_DisabledWithoutConnString(t *testing.T) {
	oldConn, oldEnabled := RedisConnString, RedisEnabled
	t.Cleanup(func() { RedisConnString, RedisEnabled = oldConn, oldEnabled })

	RedisConnString = ""
	RedisEnabled = true
	require.NoError(t, InitRedisClient())
	assert.False(t, RedisEnabled)
}
