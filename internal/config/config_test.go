package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"

[billing]
enabled = true
url = "http://billing:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.True(t, cfg.Billing.Active())
	assert.Equal(t, 10, cfg.Billing.Timeout)
	assert.False(t, cfg.Notifier.Active())
	assert.Equal(t, 100, cfg.Engine.QueueSweepBatch)
}

func TestLoad_EnvOverridesPath(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "memory"
[logs]
level = "debug"
`)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("does-not-exist.toml")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `[server`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[storage]\ndriver = \"mongo\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"postgres without db", func(c *Config) { c.Database.DBName = "" }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "" }},
		{"integration timeout", func(c *Config) { c.Notifier.Enabled = true; c.Notifier.Timeout = 0 }},
		{"negative sweep", func(c *Config) { c.Engine.QueueSweepIntervalSeconds = -1 }},
		{"batch", func(c *Config) { c.Engine.QueueSweepBatch = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.DBName = "scheduling"
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Database.DBName = "scheduling"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "s", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=s sslmode=disable", d.DSN())
}
