package app

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "STORAGE_BACKEND", "EXPORT_SCALE", "SHARE_ENABLED", "READ_ONLY"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddress != DefaultHTTPAddress {
		t.Errorf("expected %s got %s", DefaultHTTPAddress, cfg.HTTPAddress)
	}
	if cfg.StorageBackend != BackendFile {
		t.Errorf("expected file backend got %s", cfg.StorageBackend)
	}
	if cfg.ExportScale != 2 || !cfg.ShareEnabled || cfg.ReadOnly {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Mode() != ModeServe {
		t.Errorf("expected serve mode got %s", cfg.Mode())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("EXPORT_SCALE", "3")
	t.Setenv("SHARE_ENABLED", "false")
	t.Setenv("READ_ONLY", "1")
	t.Setenv("LOCATION_ORDER", "insertion")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := LoadConfig()
	if cfg.HTTPAddress != ":9090" || cfg.StorageBackend != BackendSQLite || cfg.ExportScale != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.ShareEnabled || !cfg.ReadOnly {
		t.Errorf("unexpected flags %+v", cfg)
	}
	if cfg.MaxUploadBytes <= 0 {
		t.Error("invalid MAX_UPLOAD_BYTES should fall back to the default")
	}
	if cfg.Mode() != ModeReadOnly {
		t.Errorf("expected read-only mode got %s", cfg.Mode())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.StorageBackend = "s3" }},
		{"unknown order", func(c *Config) { c.LocationOrder = "random" }},
		{"scale too large", func(c *Config) { c.ExportScale = 10 }},
		{"scale zero", func(c *Config) { c.ExportScale = 0 }},
		{"no upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	configs := map[string]Config{
		BackendMemory: {StorageBackend: BackendMemory},
		BackendFile:   {StorageBackend: BackendFile, DataDir: filepath.Join(dir, "data")},
		BackendSQLite: {StorageBackend: BackendSQLite, SQLitePath: filepath.Join(dir, "test.db")},
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			store, err := OpenStore(ctx, cfg)
			if err != nil {
				t.Fatalf("open %s: %v", name, err)
			}
			defer store.Close()

			if err := store.Set(ctx, "probe", []byte(`[]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			value, found, err := store.Get(ctx, "probe")
			if err != nil || !found || string(value) != `[]` {
				t.Errorf("unexpected get result %q %v %v", value, found, err)
			}
		})
	}

	if _, err := OpenStore(ctx, Config{StorageBackend: "s3"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
