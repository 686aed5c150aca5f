package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "INSIGHTS_"

// Config captures environment driven configuration values for the insights service.
type Config struct {
	HTTPPort        int
	DatabasePath    string
	SessionTTL      time.Duration
	CookieSecure    bool
	LogLevel        string
	LogFormat       string
	Location        *time.Location
	SeedDemoData    bool
	SeedRandomSeed  uint64
	ShutdownTimeout time.Duration
}

// Load parses configuration values from the current process environment.
//
// A dotenv file (INSIGHTS_ENV_FILE, default ".env") is read first when it
// exists; variables already present in the environment take precedence over
// the file. Optional values fall back to defaults while missing or malformed
// values are collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SessionTTL:      8 * time.Hour,
		LogLevel:        "info",
		LogFormat:       "json",
		Location:        time.UTC,
		SeedRandomSeed:  42,
		ShutdownTimeout: 10 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	envFile := strings.TrimSpace(os.Getenv(envPrefix + "ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadDotEnv(envFile); err != nil {
		invalid = append(invalid, envPrefix+"ENV_FILE")
	}

	if portValue := lookup("HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, envPrefix+"HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if path := lookup("DATABASE_PATH"); path == "" {
		missing = append(missing, envPrefix+"DATABASE_PATH")
	} else {
		cfg.DatabasePath = path
	}

	if ttlValue := lookup("SESSION_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, envPrefix+"SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if secure := lookup("COOKIE_SECURE"); secure != "" {
		value, err := strconv.ParseBool(secure)
		if err != nil {
			invalid = append(invalid, envPrefix+"COOKIE_SECURE")
		} else {
			cfg.CookieSecure = value
		}
	}

	if level := lookup("LOG_LEVEL"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, envPrefix+"LOG_LEVEL")
		}
	}

	if format := lookup("LOG_FORMAT"); format != "" {
		switch strings.ToLower(format) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(format)
		default:
			invalid = append(invalid, envPrefix+"LOG_FORMAT")
		}
	}

	if tz := lookup("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, envPrefix+"TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if seed := lookup("SEED_DEMO_DATA"); seed != "" {
		value, err := strconv.ParseBool(seed)
		if err != nil {
			invalid = append(invalid, envPrefix+"SEED_DEMO_DATA")
		} else {
			cfg.SeedDemoData = value
		}
	}

	if randomSeed := lookup("SEED_RANDOM_SEED"); randomSeed != "" {
		value, err := strconv.ParseUint(randomSeed, 10, 64)
		if err != nil {
			invalid = append(invalid, envPrefix+"SEED_RANDOM_SEED")
		} else {
			cfg.SeedRandomSeed = value
		}
	}

	if timeoutValue := lookup("SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, envPrefix+"SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
