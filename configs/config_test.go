package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(previous) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := Load("")

	assert.Equal(t, 3*time.Second, cfg.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.PollMaxInterval())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "http://localhost:8000", cfg.Viper.GetString("api.base_url"))
	assert.False(t, cfg.Viper.GetBool("push.enabled"))
	assert.NotEmpty(t, cfg.JwtKey())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://chat.example.com
poll:
  interval: 5s
push:
  enabled: true
`), 0o600))
	t.Setenv("XELA_POLL_INTERVAL", "7s")
	t.Setenv("XELA_HTTP_TIMEOUT", "2s")

	cfg := Load(path)

	assert.Equal(t, "https://chat.example.com", cfg.Viper.GetString("api.base_url"))
	assert.True(t, cfg.Viper.GetBool("push.enabled"))
	assert.Equal(t, 7*time.Second, cfg.PollInterval())
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout())
}
