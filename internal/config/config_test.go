package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GARDEN_STORE", "GARDEN_DATA", "GARDEN_SEED", "GARDEN_LOG_LEVEL", "GARDEN_LOG_FORMAT",
		"GARDEN_NATS_URL", "GARDEN_NATS_SUBJECT", "GARDEN_METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
	// Keep stray .env files in the package dir out of the way.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  kind: file
  path: /tmp/garden.json
random:
  seed: 99
log:
  level: DEBUG
  format: json
events:
  nats_url: nats://localhost:4222
`), 0o644))

	t.Setenv("GARDEN_SEED", "7")
	t.Setenv("GARDEN_METRICS_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store.Kind)
	assert.Equal(t, "/tmp/garden.json", cfg.Store.Path)
	assert.Equal(t, uint64(7), cfg.Random.Seed)
	assert.Equal(t, LogLevelDebug, cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
	assert.Equal(t, "garden.events", cfg.Events.Subject)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("GARDEN_STORE=memory\n"), 0o644))
	// godotenv never overrides a variable that exists, even when empty.
	require.NoError(t, os.Unsetenv("GARDEN_STORE"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("GARDEN_STORE", "redis")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store kind")
}

func TestNormalizeStoreKind(t *testing.T) {
	assert.Equal(t, StoreSQLite, NormalizeStoreKind(" SQLite "))
	assert.Equal(t, StoreFile, NormalizeStoreKind("FILE"))
	assert.Equal(t, StoreSQLite, NormalizeStoreKind(""))
	assert.Equal(t, StoreKind("redis"), NormalizeStoreKind("Redis"))
}

func TestLoad_BadSeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("GARDEN_SEED", "-1")
	_, err := Load("")
	require.Error(t, err)
}

func TestDataPath(t *testing.T) {
	cfg := Default()
	cfg.Store.Path = "/var/lib/garden.db"
	p, err := cfg.DataPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/garden.db", p)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Store.Path = "~/g.json"
	p, err = cfg.DataPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "g.json"), p)

	cfg.Store = StoreConfig{Kind: StoreFile}
	p, err = cfg.DataPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".garden.json"), p)
}

func TestNewLogger_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON}, &buf)
	logger.Debug("hidden")
	logger.Info("shown", "task_id", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.EqualValues(t, 3, rec["task_id"])
}
