package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sternrassler/item-cache/pkg/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.ListTTL != 30 || cfg.Cache.ItemTTL != 60 {
		t.Errorf("TTLs = %d/%d, want 30/60", cfg.Cache.ListTTL, cfg.Cache.ItemTTL)
	}
	if cfg.Cache.CleanupInterval != 0 || cfg.Cache.Coalesce {
		t.Errorf("Cache = %+v, want janitor and coalescing off", cfg.Cache)
	}
	if cfg.Log.Level != "info" || cfg.Log.Pretty {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9090"
cache:
  list-ttl: 10
  item-ttl: 0
  cleanup-interval: 5
  coalesce: true
log:
  level: debug
  pretty: true
`)

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Server: ServerConfig{Addr: "127.0.0.1:9090"},
		Cache:  CacheConfig{ListTTL: 10, ItemTTL: 0, CleanupInterval: 5, Coalesce: true},
		Log:    LogConfig{Level: "debug", Pretty: true},
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "cache:\n  list-ttl: 10\n")

	t.Setenv("ITEMCACHE_CACHE_LIST_TTL", "45")
	t.Setenv("ITEMCACHE_SERVER_ADDR", ":7070")
	t.Setenv("ITEMCACHE_CACHE_COALESCE", "true")

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.ListTTL != 45 {
		t.Errorf("ListTTL = %d, want 45 from env", cfg.Cache.ListTTL)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070 from env", cfg.Server.Addr)
	}
	if !cfg.Cache.Coalesce {
		t.Error("Coalesce should be enabled from env")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file func(t *testing.T) string
		env  map[string]string
	}{
		{
			name: "missing explicit file",
			file: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
		},
		{
			name: "malformed yaml",
			file: func(t *testing.T) string { return writeConfig(t, "cache: [") },
		},
		{
			name: "negative list ttl",
			env:  map[string]string{"ITEMCACHE_CACHE_LIST_TTL": "-1"},
		},
		{
			name: "negative item ttl",
			file: func(t *testing.T) string { return writeConfig(t, "cache:\n  item-ttl: -5\n") },
		},
		{
			name: "negative cleanup interval",
			env:  map[string]string{"ITEMCACHE_CACHE_CLEANUP_INTERVAL": "-1"},
		},
		{
			name: "empty addr",
			file: func(t *testing.T) string { return writeConfig(t, "server:\n  addr: \"\"\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.file != nil {
				path = tt.file(t)
			}

			if _, err := Load(New(), path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_NilViper(t *testing.T) {
	if _, err := Load(nil, ""); err == nil {
		t.Error("Load(nil) expected error")
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{ListTTL: 30, ItemTTL: 0, CleanupInterval: 15, Coalesce: true},
		Log:    LogConfig{Level: "warn", Pretty: true},
	}

	policy := cfg.Policy()
	if policy.ListTTL != 30*time.Second || policy.ItemTTL != 0 || !policy.Coalesce {
		t.Errorf("Policy() = %+v", policy)
	}
	if err := policy.Validate(); err != nil {
		t.Errorf("Policy().Validate() error = %v", err)
	}

	if got := cfg.CleanupInterval(); got != 15*time.Second {
		t.Errorf("CleanupInterval() = %v, want 15s", got)
	}

	logCfg := cfg.Logging()
	if logCfg.Level != logging.LevelWarn || !logCfg.Pretty || logCfg.Output == nil {
		t.Errorf("Logging() = %+v", logCfg)
	}
}
