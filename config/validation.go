package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the selected
// drivers and the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.StoreDriver {
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite store driver")
		}
	case StorePostgres:
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres store driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres store driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres store driver")
		}
		if cfg.DBPassword == "" {
			if env == CI {
				add("TEST_DB_PASSWORD", "environment variable is required in CI environment")
			} else {
				add("db_password", "secret is required for the postgres store driver")
			}
		}
	case StoreRedis:
		if cfg.RedisURL == "" && cfg.RedisHost == "" {
			add("REDIS_HOST", "REDIS_HOST or REDIS_URL is required for the redis store driver")
		}
	case StoreMemory:
	default:
		add("STORE_DRIVER", fmt.Sprintf("unknown store driver %q", cfg.StoreDriver))
	}

	switch cfg.RemoteDriver {
	case RemoteHTTP:
		if cfg.RemoteBaseURL != "" {
			if u, err := url.Parse(cfg.RemoteBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				add("REMOTE_BASE_URL", "must be an absolute URL")
			}
		}
		if env == Production && cfg.SessionToken == "" {
			add("session_token", "secret is required in production")
		}
	case RemoteS3:
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "is required for the s3 remote driver")
		}
	default:
		add("REMOTE_DRIVER", fmt.Sprintf("unknown remote driver %q", cfg.RemoteDriver))
	}

	if cfg.RemoteTimeout <= 0 {
		add("REMOTE_TIMEOUT", "must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
