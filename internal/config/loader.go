package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by PROPDASH_STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures environment driven configuration values for the dashboard service.
type Config struct {
	HTTPPort        int
	StorageDriver   string
	SQLiteDSN       string
	PostgresURL     string
	LoginLatency    time.Duration
	StrictPasswords bool
	DemoFallback    bool
	MaxClients      int
	LogLevel        string
	OTLPEndpoint    string
	OTLPInsecure    bool
}

// Load parses configuration values from the current process environment.
//
// Optional values fall back to defaults. Every missing or malformed key is
// reported at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		StorageDriver: DriverSQLite,
		SQLiteDSN:     "data/propdash.db",
		LoginLatency:  time.Second,
		MaxClients:    1024,
		LogLevel:      "info",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	if portValue := env("PROPDASH_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "PROPDASH_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.ToLower(env("PROPDASH_STORAGE_DRIVER")); driver != "" {
		switch driver {
		case DriverMemory, DriverSQLite, DriverPostgres:
			cfg.StorageDriver = driver
		default:
			invalid = append(invalid, "PROPDASH_STORAGE_DRIVER")
		}
	}

	if dsn := env("PROPDASH_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.PostgresURL = env("PROPDASH_POSTGRES_URL")
	if cfg.StorageDriver == DriverPostgres && cfg.PostgresURL == "" {
		missing = append(missing, "PROPDASH_POSTGRES_URL")
	}

	if latencyValue := env("PROPDASH_LOGIN_LATENCY"); latencyValue != "" {
		latency, err := time.ParseDuration(latencyValue)
		if err != nil || latency < 0 {
			invalid = append(invalid, "PROPDASH_LOGIN_LATENCY")
		} else {
			cfg.LoginLatency = latency
		}
	}

	parseBool := func(key string, target *bool) {
		value := env(key)
		if value == "" {
			return
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, key)
			return
		}
		*target = parsed
	}
	parseBool("PROPDASH_STRICT_PASSWORDS", &cfg.StrictPasswords)
	parseBool("PROPDASH_DEMO_FALLBACK", &cfg.DemoFallback)
	parseBool("OTEL_EXPORTER_OTLP_INSECURE", &cfg.OTLPInsecure)

	if clientsValue := env("PROPDASH_MAX_CLIENTS"); clientsValue != "" {
		clients, err := strconv.Atoi(clientsValue)
		if err != nil || clients <= 0 {
			invalid = append(invalid, "PROPDASH_MAX_CLIENTS")
		} else {
			cfg.MaxClients = clients
		}
	}

	if level := strings.ToLower(env("PROPDASH_LOG_LEVEL")); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "PROPDASH_LOG_LEVEL")
		}
	}

	cfg.OTLPEndpoint = env("OTEL_EXPORTER_OTLP_ENDPOINT")

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
