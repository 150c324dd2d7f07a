package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andryanduta/prem-insights/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	StatsTTL                   time.Duration
	FixturesTTL                time.Duration
	PulseStatsURL              string
	PulseMatchesURL            string
	PulseCompetitionID         string
	PulseTimeout               time.Duration
	PulseMaxAttempts           int
	PulseBackoffUnit           time.Duration
	PulseCircuitEnabled        bool
	PulseCircuitFailureCount   int
	PulseCircuitOpenTimeout    time.Duration
	PulseCircuitHalfOpenMaxReq int
	DefaultStatsSeason         string
	DefaultFixturesSeason      string
	DefaultStatsLimit          int
	DefaultPageSize            int
	XGHomeCoeff                float64
	XGAwayCoeff                float64
	DisplayTimezone            string
	KickoffCorrection          time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	statsTTL, err := time.ParseDuration(getEnv("STATS_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_TTL: %w", err)
	}
	if statsTTL <= 0 {
		return Config{}, fmt.Errorf("STATS_TTL must be > 0")
	}
	fixturesTTL, err := time.ParseDuration(getEnv("FIXTURES_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FIXTURES_TTL: %w", err)
	}
	if fixturesTTL <= 0 {
		return Config{}, fmt.Errorf("FIXTURES_TTL must be > 0")
	}

	pulseTimeout, err := time.ParseDuration(getEnv("PULSE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_TIMEOUT: %w", err)
	}
	if pulseTimeout <= 0 {
		return Config{}, fmt.Errorf("PULSE_TIMEOUT must be > 0")
	}
	pulseMaxAttempts, err := getEnvAsInt("PULSE_MAX_ATTEMPTS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_MAX_ATTEMPTS: %w", err)
	}
	if pulseMaxAttempts < 1 {
		return Config{}, fmt.Errorf("PULSE_MAX_ATTEMPTS must be >= 1")
	}
	pulseBackoffUnit, err := time.ParseDuration(getEnv("PULSE_BACKOFF_UNIT", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_BACKOFF_UNIT: %w", err)
	}
	if pulseBackoffUnit <= 0 {
		return Config{}, fmt.Errorf("PULSE_BACKOFF_UNIT must be > 0")
	}
	pulseCircuitEnabled, err := strconv.ParseBool(getEnv("PULSE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_CIRCUIT_ENABLED: %w", err)
	}
	pulseCircuitFailureCount, err := getEnvAsInt("PULSE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if pulseCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PULSE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	pulseCircuitOpenTimeout, err := time.ParseDuration(getEnv("PULSE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if pulseCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("PULSE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	pulseCircuitHalfOpenMaxReq, err := getEnvAsInt("PULSE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PULSE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if pulseCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PULSE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	defaultStatsLimit, err := getEnvAsInt("DEFAULT_STATS_LIMIT", 40)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_STATS_LIMIT: %w", err)
	}
	if defaultStatsLimit < 1 {
		return Config{}, fmt.Errorf("DEFAULT_STATS_LIMIT must be >= 1")
	}
	defaultPageSize, err := getEnvAsInt("DEFAULT_PAGE_SIZE", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_PAGE_SIZE: %w", err)
	}
	if defaultPageSize < 1 {
		return Config{}, fmt.Errorf("DEFAULT_PAGE_SIZE must be >= 1")
	}

	xgHomeCoeff, err := getEnvAsFloat("XG_HOME_COEFF", 5.0)
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_HOME_COEFF: %w", err)
	}
	xgAwayCoeff, err := getEnvAsFloat("XG_AWAY_COEFF", -4.6)
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_AWAY_COEFF: %w", err)
	}

	kickoffCorrection, err := time.ParseDuration(getEnv("KICKOFF_CORRECTION", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKOFF_CORRECTION: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "45s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "prem-insights-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		StatsTTL:                   statsTTL,
		FixturesTTL:                fixturesTTL,
		PulseStatsURL:              strings.TrimSpace(getEnv("PULSE_STATS_URL", "")),
		PulseMatchesURL:            strings.TrimSpace(getEnv("PULSE_MATCHES_URL", "")),
		PulseCompetitionID:         strings.TrimSpace(getEnv("PULSE_COMPETITION_ID", "8")),
		PulseTimeout:               pulseTimeout,
		PulseMaxAttempts:           pulseMaxAttempts,
		PulseBackoffUnit:           pulseBackoffUnit,
		PulseCircuitEnabled:        pulseCircuitEnabled,
		PulseCircuitFailureCount:   pulseCircuitFailureCount,
		PulseCircuitOpenTimeout:    pulseCircuitOpenTimeout,
		PulseCircuitHalfOpenMaxReq: pulseCircuitHalfOpenMaxReq,
		DefaultStatsSeason:         strings.TrimSpace(getEnv("DEFAULT_STATS_SEASON", "2024")),
		DefaultFixturesSeason:      strings.TrimSpace(getEnv("DEFAULT_FIXTURES_SEASON", "2025")),
		DefaultStatsLimit:          defaultStatsLimit,
		DefaultPageSize:            defaultPageSize,
		XGHomeCoeff:                xgHomeCoeff,
		XGAwayCoeff:                xgAwayCoeff,
		DisplayTimezone:            strings.TrimSpace(getEnv("DISPLAY_TIMEZONE", "Australia/Melbourne")),
		KickoffCorrection:          kickoffCorrection,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.DefaultStatsSeason == "" || cfg.DefaultFixturesSeason == "" {
		return Config{}, fmt.Errorf("default seasons cannot be empty")
	}
	if cfg.DisplayTimezone == "" {
		return Config{}, fmt.Errorf("DISPLAY_TIMEZONE cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
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

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
