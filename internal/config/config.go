package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "jobtracker"
	ConfigFileName = "config.json"
	DBFileName     = "jobtracker.db"
)

// Config contains store, catalog and digest defaults. Flags override it.
type Config struct {
	Store   string   `json:"store"`
	DSN     string   `json:"dsn"`
	Catalog string   `json:"catalog"`
	Proxies []string `json:"proxies"`
	// DigestDelay is a duration string such as "1500ms".
	DigestDelay string `json:"digest_delay"`
	// FetchTimeout bounds remote catalog downloads, e.g. "30s".
	FetchTimeout string `json:"fetch_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Store:        envString("JOBTRACKER_STORE", "sqlite"),
		DSN:          envString("JOBTRACKER_DSN", ""),
		Catalog:      envString("JOBTRACKER_CATALOG", ""),
		Proxies:      splitCSV(envString("JOBTRACKER_PROXY", "")),
		DigestDelay:  envString("JOBTRACKER_DIGEST_DELAY", "0s"),
		FetchTimeout: envString("JOBTRACKER_FETCH_TIMEOUT", "30s"),
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// DefaultDBPath is the sqlite file used when no DSN is configured.
func DefaultDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFileName), nil
}

// Load reads config.json over the defaults. Environment variables win over
// the file.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path; a missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Store = envString("JOBTRACKER_STORE", cfg.Store)
	cfg.DSN = envString("JOBTRACKER_DSN", cfg.DSN)
	cfg.Catalog = envString("JOBTRACKER_CATALOG", cfg.Catalog)
	if proxies := splitCSV(envString("JOBTRACKER_PROXY", "")); len(proxies) > 0 {
		cfg.Proxies = proxies
	}
	cfg.DigestDelay = envString("JOBTRACKER_DIGEST_DELAY", cfg.DigestDelay)
	cfg.FetchTimeout = envString("JOBTRACKER_FETCH_TIMEOUT", cfg.FetchTimeout)
}

// Delay parses DigestDelay; invalid or negative values mean no delay.
func (c Config) Delay() time.Duration {
	return parseDuration(c.DigestDelay, 0)
}

// Timeout parses FetchTimeout, falling back to 30s.
func (c Config) Timeout() time.Duration {
	return parseDuration(c.FetchTimeout, 30*time.Second)
}

// Init writes a default config.json if it doesn't already exist.
func Init() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return InitDir(dir)
}

// InitDir is Init for an explicit directory.
func InitDir(dir string) ([]string, error) {
	var created []string

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg.Proxies == nil {
		cfg.Proxies = []string{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		if d < 0 {
			return fallback
		}
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
