package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_SECRET", secret)
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, 24*time.Hour, c.Session.TTL)
	assert.Equal(t, 5, c.Rate.Login.Limit)
	assert.Equal(t, 15*time.Minute, c.Rate.Login.Window)
	assert.Equal(t, 4*time.Second, c.Propagation.PollInterval)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	p := writeYAML(t, `
server:
  addr: ":9000"
session:
  signing_secret: "`+secret+`"
rate:
  login:
    limit: 3
    window: 10m
propagation:
  poll_interval: 2s
`)
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("SERVER_TRUST_PROXY", "true")
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":9100", c.Server.Addr)
	assert.True(t, c.Server.TrustProxy)
	assert.Equal(t, 3, c.Rate.Login.Limit)
	assert.Equal(t, 10*time.Minute, c.Rate.Login.Window)
	assert.Equal(t, 2*time.Second, c.Propagation.PollInterval)
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("SESSION_SIGNING_SECRET", "short")
	_, err := Load("")
	assert.ErrorContains(t, err, "signing_secret")

	t.Setenv("SESSION_SIGNING_SECRET", secret)
	t.Setenv("PROPAGATION_POLL_INTERVAL", "10s")
	_, err = Load("")
	assert.ErrorContains(t, err, "poll_interval")

	t.Setenv("PROPAGATION_POLL_INTERVAL", "3s")
	t.Setenv("STORAGE_DRIVER", "postgres")
	_, err = Load("")
	assert.ErrorContains(t, err, "storage.dsn")
}
