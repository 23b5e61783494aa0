package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JOBTRACKER_STORE",
		"JOBTRACKER_DSN",
		"JOBTRACKER_CATALOG",
		"JOBTRACKER_PROXY",
		"JOBTRACKER_DIGEST_DELAY",
		"JOBTRACKER_FETCH_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	if cfg.Store != "sqlite" {
		t.Fatalf("Store = %q, want sqlite", cfg.Store)
	}
	if cfg.Delay() != 0 {
		t.Fatalf("Delay() = %v, want 0", cfg.Delay())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("Timeout() = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadFileJSON5AndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `{
  // comments and trailing commas are fine
  store: "memory",
  catalog: "jobs.json5",
  proxies: ["http://proxy:8080"],
  digest_delay: "1500ms",
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Store != "memory" || cfg.Catalog != "jobs.json5" {
		t.Fatalf("LoadFile() = %#v", cfg)
	}
	if !reflect.DeepEqual(cfg.Proxies, []string{"http://proxy:8080"}) {
		t.Fatalf("Proxies = %#v", cfg.Proxies)
	}
	if cfg.Delay() != 1500*time.Millisecond {
		t.Fatalf("Delay() = %v, want 1.5s", cfg.Delay())
	}

	t.Setenv("JOBTRACKER_STORE", "redis")
	t.Setenv("JOBTRACKER_DSN", "redis://localhost:6379/0")
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Store != "redis" || cfg.DSN != "redis://localhost:6379/0" {
		t.Fatalf("env override not applied: %#v", cfg)
	}
}

func TestLoadFileMissingAndEmpty(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("LoadFile(missing) error = %v", err)
	}
	if cfg.Store != "sqlite" {
		t.Fatalf("Store = %q, want default", cfg.Store)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadFile(empty); err != nil {
		t.Fatalf("LoadFile(empty) error = %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{store:"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("LoadFile(bad) error = nil, want error")
	}
}

func TestInitDirIsIdempotent(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "jobtracker")

	created, err := InitDir(dir)
	if err != nil {
		t.Fatalf("InitDir() error = %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("InitDir() created %v, want config.json", created)
	}
	cfg, err := LoadFile(created[0])
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Store != "sqlite" {
		t.Fatalf("written Store = %q", cfg.Store)
	}

	created, err = InitDir(dir)
	if err != nil {
		t.Fatalf("InitDir() (2nd) error = %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("InitDir() (2nd) created %v, want nothing", created)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "", want: time.Second},
		{in: "2s", want: 2 * time.Second},
		{in: "250", want: 250 * time.Millisecond},
		{in: "-1s", want: time.Second},
		{in: "soon", want: time.Second},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in, time.Second); got != tt.want {
			t.Fatalf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
