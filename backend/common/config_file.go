package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3000\nSQLITE_PATH=data/file-vault.db\n"

func loadConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "file-vault", "config.ini")
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}

	if err := applyConfigMap(configMap); err != nil {
		return fmt.Errorf("apply config file %s: %w", configPath, err)
	}

	return nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	if _, err := configFile.WriteString(defaultConfigTemplate); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func applyConfigMap(configMap map[string]string) error {
	if configValue, ok := configMap["SQLITE_PATH"]; ok && configValue != "" {
		SQLitePath = configValue
	}

	if configValue, ok := configMap["SQL_DSN"]; ok && configValue != "" {
		SQLDSN = configValue
	}

	if configValue, ok := configMap["MONGO_URI"]; ok && configValue != "" {
		MongoURI = configValue
	}

	if configValue, ok := configMap["MONGO_DATABASE"]; ok && configValue != "" {
		MongoDatabase = configValue
	}

	if configValue, ok := configMap["BADGER_PATH"]; ok && configValue != "" {
		BadgerPath = configValue
	}

	if configValue, ok := configMap["REDIS_CONN_STRING"]; ok && configValue != "" {
		RedisConnString = configValue
	}

	if configValue, ok := configMap["BOOTSTRAP_TOKEN"]; ok && configValue != "" {
		BootstrapToken = configValue
	}

	if configValue, ok := configMap["PORT"]; ok && configValue != "" {
		portInt, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for PORT: %w", err)
		}
		*Port = portInt
	}

	if configValue, ok := configMap["SESSION_TTL"]; ok && configValue != "" {
		ttl, err := parseDuration("SESSION_TTL", configValue)
		if err != nil {
			return err
		}
		SessionTTL = ttl
	}

	if configValue, ok := configMap["RATE_LIMIT_RPS"]; ok && configValue != "" {
		rps, err := strconv.ParseFloat(configValue, 64)
		if err != nil {
			return fmt.Errorf("invalid value for RATE_LIMIT_RPS: %w", err)
		}
		GlobalApiRateLimitRPS = rps
	}

	if configValue, ok := configMap["RATE_LIMIT_BURST"]; ok && configValue != "" {
		burst, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for RATE_LIMIT_BURST: %w", err)
		}
		GlobalApiRateLimitBurst = burst
	}

	return nil
}
