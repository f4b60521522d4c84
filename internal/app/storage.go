package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/klabast/wb-services/programacao/internal/kv"
)

// OpenStore opens the configured backing store.
func OpenStore(ctx context.Context, cfg Config) (kv.Store, error) {
	switch cfg.StorageBackend {
	case BackendMemory:
		log.Println("Using in-memory storage, data is lost on exit")
		return kv.NewMemory(), nil
	case BackendFile:
		dir, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		log.Printf("Data directory: %s", dir)
		return kv.NewFile(dir)
	case BackendSQLite:
		log.Printf("SQLite database: %s", cfg.SQLitePath)
		return kv.OpenSQLite(cfg.SQLitePath)
	case BackendRedis:
		log.Printf("Redis: %s (prefix %q)", cfg.RedisAddr, cfg.RedisPrefix)
		return kv.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
