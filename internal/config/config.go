package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Database
	DBPath string

	// Export
	ExportPath string

	// Listing
	ListLimit int
}

func Load() *Config {
	return &Config{
		DBPath:     getEnv("LEDGER_DB_PATH", "./data/ledger.db"),
		ExportPath: getEnv("LEDGER_EXPORT_PATH", "./transactions_export.csv"),
		ListLimit:  getEnvInt("LEDGER_LIST_LIMIT", 100),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.ExportPath == "" {
		errs = append(errs, "export path cannot be empty")
	}

	if c.ListLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid list limit %d: must be at least 1", c.ListLimit))
	} else if c.ListLimit > 10000 {
		errs = append(errs, fmt.Sprintf("invalid list limit %d: must be at most 10000", c.ListLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
