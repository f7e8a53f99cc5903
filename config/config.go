package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store drivers for the local record store
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Remote drivers for the remote plan copy
const (
	RemoteHTTP = "http"
	RemoteS3   = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Local UI bridge
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Local record store
	StoreDriver     string
	RecordNamespace string
	SQLitePath      string

	// Database configuration (postgres store driver)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (redis store driver)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Remote plan copy
	RemoteDriver  string
	RemoteBaseURL string
	RemoteTimeout time.Duration
	SessionToken  string

	// S3 remote driver
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults()

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerHost:      "127.0.0.1",
		ServerPort:      "8090",
		AllowedOrigins:  []string{"http://localhost:5173"},
		StoreDriver:     StoreSQLite,
		RecordNamespace: "default",
		SQLitePath:      filepath.Join(".alchemorsel", "client.db"),
		DBPort:          "5432",
		DBSSLMode:       "disable",
		RedisPort:       "6379",
		RemoteDriver:    RemoteHTTP,
		RemoteTimeout:   15 * time.Second,
	}
}

// loadCIConfig loads configuration for CI environment using ONLY environment variables
func loadCIConfig(cfg *Config) {
	applyEnv(cfg)
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.SessionToken = os.Getenv("TEST_SESSION_TOKEN")
}

// loadDevConfig loads configuration for development: environment variables
// first, Docker secrets as a fallback for sensitive values
func loadDevConfig(cfg *Config) {
	applyEnv(cfg)
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), readSecret("db_password"))
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), readSecret("redis_password"))
	cfg.SessionToken = firstNonEmpty(os.Getenv("SESSION_TOKEN"), readSecret("session_token"))
}

// loadProdConfig loads configuration for production: sensitive values come
// ONLY from Docker secrets
func loadProdConfig(cfg *Config) {
	applyEnv(cfg)
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.SessionToken = readSecret("session_token")
}

// applyEnv overlays the non-sensitive settings present in the environment
func applyEnv(cfg *Config) {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.RecordNamespace, "RECORD_NAMESPACE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")

	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")

	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisURL, "REDIS_URL")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}

	setString(&cfg.RemoteDriver, "REMOTE_DRIVER")
	setString(&cfg.RemoteBaseURL, "REMOTE_BASE_URL")
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RemoteTimeout = d
		}
	}

	setString(&cfg.S3Bucket, "S3_BUCKET_NAME")
	setString(&cfg.S3Region, "AWS_REGION")
	setString(&cfg.S3Endpoint, "S3_ENDPOINT")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, envVar string) {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
