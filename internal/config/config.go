package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/platform/resilience"
)

type AppEnv string

const (
	AppEnvDev   AppEnv = "dev"
	AppEnvStage AppEnv = "stage"
	AppEnvProd  AppEnv = "prod"
)

type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	LogLevel       logging.Level
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL                      string
	DBDisablePreparedBinaryRes bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	RiotEnabled    bool
	RiotBaseURL    string
	RiotAPIKey     string
	RiotTimeout    time.Duration
	RiotMaxRetries int
	RiotCircuit    resilience.CircuitBreakerConfig

	SyncRateInterval time.Duration
	SyncRateBurst    int
	SyncDefaultStart int
	SyncDefaultCount int
	SyncCron         string

	MetricsWorkers  int
	RankingMinGames int

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeAppName           string
	PyroscopeServerAddress     string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:         parseAppEnv(getEnv("APP_ENV", string(AppEnvDev))),
		ServiceName:    getEnv("APP_SERVICE_NAME", "capitascore"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		ReadTimeout:    getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second),

		DBURL:                      strings.TrimSpace(os.Getenv("DB_URL")),
		DBDisablePreparedBinaryRes: getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false),

		CacheEnabled: getEnvAsBool("CACHE_ENABLED", true),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", 60*time.Second),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		InternalJobToken:   strings.TrimSpace(os.Getenv("INTERNAL_JOB_TOKEN")),

		RiotEnabled:    getEnvAsBool("RIOT_ENABLED", false),
		RiotBaseURL:    getEnv("RIOT_BASE_URL", "https://americas.api.riotgames.com"),
		RiotAPIKey:     strings.TrimSpace(os.Getenv("RIOT_API_KEY")),
		RiotTimeout:    getEnvAsDuration("RIOT_TIMEOUT", 20*time.Second),
		RiotMaxRetries: getEnvAsInt("RIOT_MAX_RETRIES", 2),
		RiotCircuit: resilience.CircuitBreakerConfig{
			Enabled:          getEnvAsBool("RIOT_CIRCUIT_ENABLED", true),
			FailureThreshold: getEnvAsInt("RIOT_CIRCUIT_FAILURE_THRESHOLD", 5),
			OpenTimeout:      getEnvAsDuration("RIOT_CIRCUIT_OPEN_TIMEOUT", 15*time.Second),
			HalfOpenMaxReq:   getEnvAsInt("RIOT_CIRCUIT_HALF_OPEN_MAX_REQUESTS", 2),
		},

		SyncRateInterval: getEnvAsDuration("SYNC_RATE_INTERVAL", 3*time.Second),
		SyncRateBurst:    getEnvAsInt("SYNC_RATE_BURST", 1),
		SyncDefaultStart: getEnvAsInt("SYNC_DEFAULT_START", 0),
		SyncDefaultCount: getEnvAsInt("SYNC_DEFAULT_COUNT", 10),
		SyncCron:         strings.TrimSpace(os.Getenv("SYNC_CRON")),

		MetricsWorkers:  getEnvAsInt("METRICS_WORKERS", 4),
		RankingMinGames: getEnvAsInt("RANKING_MIN_GAMES", 3),

		UptraceEnabled:     getEnvAsBool("UPTRACE_ENABLED", false),
		UptraceDSN:         strings.TrimSpace(os.Getenv("UPTRACE_DSN")),
		UptraceLogsEnabled: getEnvAsBool("UPTRACE_LOGS_ENABLED", false),

		PyroscopeEnabled:           getEnvAsBool("PYROSCOPE_ENABLED", false),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "capitascore"),
		PyroscopeServerAddress:     strings.TrimSpace(os.Getenv("PYROSCOPE_SERVER_ADDRESS")),
		PyroscopeAuthToken:         strings.TrimSpace(os.Getenv("PYROSCOPE_AUTH_TOKEN")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(os.Getenv("PYROSCOPE_BASIC_AUTH_USER")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(os.Getenv("PYROSCOPE_BASIC_AUTH_PASSWORD")),
		PyroscopeUploadRate:        getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("APP_HTTP_ADDR is required")
	}
	if c.RiotEnabled && c.RiotAPIKey == "" {
		return fmt.Errorf("RIOT_API_KEY is required when RIOT_ENABLED=true")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled && c.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if c.SyncRateBurst < 1 {
		return fmt.Errorf("SYNC_RATE_BURST must be >= 1")
	}
	if c.SyncDefaultCount < 1 {
		return fmt.Errorf("SYNC_DEFAULT_COUNT must be >= 1")
	}
	if c.MetricsWorkers < 1 {
		return fmt.Errorf("METRICS_WORKERS must be >= 1")
	}
	if c.RankingMinGames < 1 {
		return fmt.Errorf("RANKING_MIN_GAMES must be >= 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch raw {
	case "":
		return fallback
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseAppEnv(raw string) string {
	switch AppEnv(strings.ToLower(strings.TrimSpace(raw))) {
	case AppEnvProd:
		return string(AppEnvProd)
	case AppEnvStage:
		return string(AppEnvStage)
	default:
		return string(AppEnvDev)
	}
}

func parseLogLevel(raw string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
