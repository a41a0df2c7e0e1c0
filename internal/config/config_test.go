package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "rights_catalog", cfg.Database.DBName)
	assert.Equal(t, "rights:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "rights.lookup.audit", cfg.Kafka.AuditTopic)
	assert.Equal(t, 5000, cfg.Lookup.MaxTracksPerQuery)
	assert.Equal(t, 60*time.Second, cfg.Lookup.QueryTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyDefaultsKeepsOperatorValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Lookup.MaxTracksPerQuery = 100
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Lookup.MaxTracksPerQuery)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.Host = "localhost"
	require.NoError(t, cfg.Validate())

	t.Run("missing catalog source", func(t *testing.T) {
		c := *cfg
		c.Database.Host = ""
		assert.Error(t, c.Validate())
	})

	t.Run("snowflake enabled requires account", func(t *testing.T) {
		c := *cfg
		c.Snowflake.Enabled = true
		assert.Error(t, c.Validate())

		c.Snowflake.Account = "acme-ab12345"
		c.Snowflake.User = "lookup_svc"
		assert.NoError(t, c.Validate())
	})

	t.Run("kafka enabled requires brokers", func(t *testing.T) {
		c := *cfg
		c.Kafka.Enabled = true
		assert.Error(t, c.Validate())
	})

	t.Run("redis enabled requires addr", func(t *testing.T) {
		c := *cfg
		c.Redis.Enabled = true
		assert.Error(t, c.Validate())
	})

	t.Run("port range", func(t *testing.T) {
		c := *cfg
		c.Server.Port = 70000
		assert.Error(t, c.Validate())
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9191
database:
  host: db.internal
  password: secret
lookup:
  max_tracks_per_query: 250
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 250, cfg.Lookup.MaxTracksPerQuery)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields take defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: file-host\n"), 0o600))

	t.Setenv("RIGHTS_DATABASE_HOST", "env-host")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Database.Host)
}
