package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// isolate clears every key Load reads and points it at an empty .env file.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "APP_READ_HEADER_TIMEOUT",
		"AUTOWIRE_CACHE_FILE", "AUTOWIRE_WARMUP", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load(isolate(t))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoLaravel"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"App.ReadHeaderTimeout", cfg.App.ReadHeaderTimeout, 10 * time.Second},
		{"Autowire.CacheFile", cfg.Autowire.CacheFile, ""},
		{"Autowire.WarmUpOnBoot", cfg.Autowire.WarmUpOnBoot, false},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	envFile := isolate(t)
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTOWIRE_CACHE_FILE", "/var/cache/autowire.yaml")
	t.Setenv("AUTOWIRE_WARMUP", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_READ_HEADER_TIMEOUT", "3")

	cfg := config.Load(envFile)

	assert.Equal(t, 3*time.Second, cfg.App.ReadHeaderTimeout)
	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "/var/cache/autowire.yaml", cfg.Autowire.CacheFile)
	assert.True(t, cfg.Autowire.WarmUpOnBoot)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path,
		[]byte("AUTOWIRE_CACHE_FILE=storage/autowire.yaml\nLOG_FORMAT=json\n"), 0o600))
	// godotenv does not override variables that are already set, even to ""
	require.NoError(t, os.Unsetenv("AUTOWIRE_CACHE_FILE"))
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))
	t.Cleanup(func() {
		_ = os.Unsetenv("AUTOWIRE_CACHE_FILE")
		_ = os.Unsetenv("LOG_FORMAT")
	})

	cfg := config.Load(path)

	assert.Equal(t, "storage/autowire.yaml", cfg.Autowire.CacheFile)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingEnvFileIsNotFatal(t *testing.T) {
	isolate(t)

	cfg := config.Load(filepath.Join(t.TempDir(), "nope.env"))

	assert.Equal(t, "GoLaravel", cfg.App.Name)
}

func TestLoad_AppDebugFalse(t *testing.T) {
	envFile := isolate(t)
	t.Setenv("APP_DEBUG", "false")

	assert.False(t, config.Load(envFile).App.Debug)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	t.Setenv("MISSING_KEY", "")

	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
