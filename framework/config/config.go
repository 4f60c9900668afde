package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App      AppConfig
	Autowire AutowireConfig
	Log      LogConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string

	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration
}

// AutowireConfig controls the constructor parameter cache.
type AutowireConfig struct {
	// CacheFile is where the parameter cache is persisted. Empty keeps the
	// cache in memory only.
	CacheFile string

	// WarmUpOnBoot resolves every auto-wired type when the application boots.
	WarmUpOnBoot bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:              Get("APP_NAME", "GoLaravel"),
			Env:               Get("APP_ENV", "local"),
			Debug:             GetBool("APP_DEBUG", true),
			Port:              Get("APP_PORT", "8000"),
			ReadHeaderTimeout: time.Duration(GetInt("APP_READ_HEADER_TIMEOUT", 10)) * time.Second,
		},
		Autowire: AutowireConfig{
			CacheFile:    Get("AUTOWIRE_CACHE_FILE", ""),
			WarmUpOnBoot: GetBool("AUTOWIRE_WARMUP", false),
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
