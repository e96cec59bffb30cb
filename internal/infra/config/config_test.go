package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
sugarPoints:
  defaultTarget: 100
  timezone: "Asia/Singapore"
storage:
  valkey:
    enabled: true
    addr: "localhost:6379"
`), 0o600))

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SUGARPOINTS_DEFAULT_TARGET", "110")
	t.Setenv("VALKEY_DAY_CACHE_TTL", "2m")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 110, cfg.SugarPoints.DefaultTarget)
	require.Equal(t, 2*time.Minute, cfg.Storage.Valkey.DayCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.Storage.Valkey.QuizSessionTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)

	loc, err := cfg.SugarPoints.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Singapore", loc.String())
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LLM_MODEL=gpt-test\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LLM_MODEL", "")
	require.NoError(t, os.Unsetenv("LLM_MODEL"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-test", cfg.LLM.Model)
	require.NoError(t, os.Unsetenv("LLM_MODEL"))
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.SugarPoints.DefaultTarget = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Storage.Valkey.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "storage.valkey.addr")

	cfg = defaultConfig()
	cfg.SugarPoints.Timezone = "Mars/Olympus"
	require.Error(t, cfg.Validate())
}
