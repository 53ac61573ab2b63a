package common

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
)

func PrintHelp() {
	fmt.Println("File Vault " + Version + " - authenticated file metadata service.")
	fmt.Println("Usage: file-vault [--port <port>] [--version] [--help]")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SQL_DSN            MySQL DSN; SQLite at SQLITE_PATH is used when empty")
	fmt.Println("  MONGO_URI          use MongoDB for users and files")
	fmt.Println("  BADGER_PATH        use an embedded Badger store at this directory")
	fmt.Println("  REDIS_CONN_STRING  Redis URL holding auth_<token> sessions")
	fmt.Println("  BOOTSTRAP_TOKEN    seed a bootstrap user and session with this token")
}

// LoadConfig applies the ini config file, then .env and environment
// variables, later sources overriding earlier ones. Flags are parsed last by
// main so they win over everything.
func LoadConfig() error {
	if os.Getenv("FILE_VAULT_NO_CONFIG_FILE") == "" {
		if err := loadConfigFile(); err != nil {
			return err
		}
	}
	loadDotenv()
	if err := applyConfigMap(envConfigMap()); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	return nil
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func envConfigMap() map[string]string {
	keys := []string{
		"PORT", "SQLITE_PATH", "SQL_DSN", "MONGO_URI", "MONGO_DATABASE", "BADGER_PATH",
		"REDIS_CONN_STRING", "SESSION_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BOOTSTRAP_TOKEN",
	}
	configMap := make(map[string]string, len(keys))
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			configMap[key] = v
		}
	}
	return configMap
}

func parseDuration(key, value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, value)
	}
	return time.Duration(seconds) * time.Second, nil
}
