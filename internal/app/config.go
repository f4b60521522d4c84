package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/klabast/wb-services/programacao/internal/export"
	"github.com/klabast/wb-services/programacao/internal/sources"
)

// Constants
const (
	DefaultHTTPAddress = ":8080"
	DefaultDataDir     = "data"
	DefaultSQLitePath  = "programacao.db"
	DefaultRedisPrefix = "programacao:"

	// Storage backends
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	// Error types
	ErrTypeMethodNotAllowed = "method_not_allowed"
	ErrTypeInvalidRequest   = "invalid_request"
	ErrTypeValidation       = "validation_failed"
	ErrTypeDuplicate        = "duplicate"
	ErrTypeNotFound         = "not_found"
	ErrTypeReadOnly         = "read_only"
	ErrTypeTooLarge         = "too_large"
	ErrTypeExportFailed     = "export_failed"

	// Error messages
	ErrReadOnlyMode      = "Read-only mode, changes are disabled"
	ErrMethodNotAllowed  = "Method not allowed"
	ErrInvalidBody       = "Unable to parse request body"
	ErrInvalidFormat     = "Invalid format"
	ErrShareDisabled     = "Sharing is disabled"
	ErrConfirmRequired   = "Reset requires confirm=true"
	ErrFailedToExport    = "Failed to generate export"
	ErrMissingActivityID = "Missing activity id"

	// Mode strings
	ModeServe    = "serve"
	ModeReadOnly = "read-only"
)

// Config captures runtime configuration values.
type Config struct {
	HTTPAddress    string
	StorageBackend string
	DataDir        string
	SQLitePath     string
	RedisAddr      string
	RedisPrefix    string
	LocationOrder  string
	ShareEnabled   bool
	ExportScale    int
	PlaceholderURL string
	MaxUploadBytes int64
	ReadOnly       bool
}

// LoadConfig reads environment variables into Config, applying defaults for
// local use.
func LoadConfig() Config {
	return Config{
		HTTPAddress:    getEnv("HTTP_ADDRESS", DefaultHTTPAddress),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		DataDir:        getEnv("DATA_DIR", DefaultDataDir),
		SQLitePath:     getEnv("SQLITE_PATH", DefaultSQLitePath),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:    getEnv("REDIS_PREFIX", DefaultRedisPrefix),
		LocationOrder:  getEnv("LOCATION_ORDER", string(sources.OrderAlphabetical)),
		ShareEnabled:   getBoolEnv("SHARE_ENABLED", true),
		ExportScale:    getIntEnv("EXPORT_SCALE", export.DefaultScale),
		PlaceholderURL: getEnv("PLACEHOLDER_URL", ""),
		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", sources.DefaultMaxImageBytes)),
		ReadOnly:       getBoolEnv("READ_ONLY", false),
	}
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if _, err := sources.ParseLocationOrder(c.LocationOrder); err != nil {
		return err
	}
	if c.ExportScale < 1 || c.ExportScale > export.MaxScale {
		return fmt.Errorf("export scale must be between 1 and %d, got %d", export.MaxScale, c.ExportScale)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// Mode names the server mode for startup logs.
func (c Config) Mode() string {
	if c.ReadOnly {
		return ModeReadOnly
	}
	return ModeServe
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}
