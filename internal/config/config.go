package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreFile   StoreKind = "file"
	StoreMemory StoreKind = "memory"
)

// NormalizeStoreKind trims and lower-cases raw; empty selects StoreSQLite.
// Unknown kinds are left for Validate to reject.
func NormalizeStoreKind(raw string) StoreKind {
	k := StoreKind(strings.ToLower(strings.TrimSpace(raw)))
	if k == "" {
		return StoreSQLite
	}
	return k
}

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Random  RandomConfig  `yaml:"random"`
	Log     LogConfig     `yaml:"log"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type StoreConfig struct {
	Kind StoreKind `yaml:"kind"`
	// Path is the SQLite database or JSON document. Empty selects the default
	// location for Kind.
	Path string `yaml:"path"`
}

type RandomConfig struct {
	// Seed makes plant symbols reproducible. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Store:   StoreConfig{Kind: StoreSQLite},
		Log:     LogConfig{Level: LogLevelWarn, Format: LogFormatText},
		Events:  EventsConfig{Subject: "garden.events"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9464"},
	}
}

// DefaultPath returns $GARDEN_CONFIG or ~/.config/garden/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("GARDEN_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "garden", "config.yaml"), nil
}

// Load reads .env files, the YAML file at path (a missing file keeps the defaults)
// and GARDEN_* environment overrides, in that order of increasing precedence.
func Load(path string) (Config, error) {
	loadEnvFiles()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env and .env.local when present. Variables already set in the
// process environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("GARDEN_STORE"); v != "" {
		cfg.Store.Kind = StoreKind(v)
	}
	if v := os.Getenv("GARDEN_DATA"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("GARDEN_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GARDEN_SEED: %w", err)
		}
		cfg.Random.Seed = seed
	}
	if v := os.Getenv("GARDEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = LogLevel(v)
	}
	if v := os.Getenv("GARDEN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = LogFormat(v)
	}
	if v := os.Getenv("GARDEN_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("GARDEN_NATS_SUBJECT"); v != "" {
		cfg.Events.Subject = v
	}
	if v := os.Getenv("GARDEN_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}

func (c *Config) normalize() {
	c.Store.Kind = NormalizeStoreKind(string(c.Store.Kind))
	c.Log.Level = NormalizeLogLevel(string(c.Log.Level))
	c.Log.Format = NormalizeLogFormat(string(c.Log.Format))
	if strings.TrimSpace(c.Events.Subject) == "" {
		c.Events.Subject = "garden.events"
	}
}

func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("unknown store kind %q (want sqlite|file|memory)", c.Store.Kind)
	}
	return nil
}

// DataPath returns the configured store path or the default for the store kind.
func (c Config) DataPath() (string, error) {
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	switch c.Store.Kind {
	case StoreFile:
		return filepath.Join(home, ".garden.json"), nil
	default:
		return filepath.Join(home, ".garden.db"), nil
	}
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
