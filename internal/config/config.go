package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	LogLevel  string
	LogFormat string

	// HTTPTimeout bounds every upstream request.
	HTTPTimeout time.Duration

	NDBCBaseURL string
	CDIPBaseURL string

	// Observation cache. An empty RedisURL keeps the cache in process.
	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisURL        string

	// Spot catalog. An empty DatabaseURL uses the in-memory store, seeded from SpotsFile if set.
	DatabaseURL string
	SpotsFile   string

	// Stations to keep warm in the cache.
	WarmStations []string
	WarmInterval time.Duration

	TracingEnabled bool
	OTLPEndpoint   string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.NDBCBaseURL = getenvDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov/data")
	cfg.CDIPBaseURL = getenvDefault("CDIP_BASE_URL", "https://cdip.ucsd.edu")

	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 512)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SpotsFile = os.Getenv("SPOTS_FILE")

	cfg.WarmStations = splitList(os.Getenv("WARM_STATIONS"))
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.TracingEnabled = getenvBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
