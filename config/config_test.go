package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Storage.EphemeralBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.False(t, cfg.Drive.Enabled())
}

func TestLoad_YAMLOverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  shutdown_timeout: 3s
storage:
  ephemeral_backend: file
  ephemeral_dir: /tmp/projects
drive:
  root_folder_id: from-yaml
  credentials_path: /secrets/drive.json
ai:
  timeout: 15s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "from-env")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendFile, cfg.Storage.EphemeralBackend)
	assert.Equal(t, "from-env", cfg.Drive.RootFolderID)
	assert.True(t, cfg.Drive.Enabled())
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5.0, cfg.Drive.RequestsPerSecond)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.NoError(t, cfg.Validate())

	cfg.Storage.EphemeralBackend = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "EPHEMERAL_BACKEND")

	cfg = defaults()
	cfg.Server.Port = ""
	assert.ErrorContains(t, cfg.Validate(), "PORT is required")

	cfg = defaults()
	cfg.Drive.RequestsPerSecond = 0
	assert.ErrorContains(t, cfg.Validate(), "GOOGLE_DRIVE_RPS")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))

	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_FLOAT", "2.5")
	assert.Equal(t, 2.5, getEnvAsFloat("TEST_FLOAT", 1))
}
