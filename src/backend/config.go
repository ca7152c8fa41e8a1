package main

import (
	"fmt"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultAddr = "0.0.0.0:9000"

// Config is read from the environment once at startup.
type Config struct {
	Addr          string
	PluginPath    string
	TemplatePath  string
	StaticPath    string
	SessionSecret string
	SessionDir    string
	HistoryDriver string
	HistoryDSN    string
	SmokeSchedule string
	LogLevel      string
}

func loadConfig() Config {
	if err := godotenv.Load("../../.env.local"); err != nil {
		// If .env.local doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			logger.Debug().Msg("No .env files found. Using environment variables.")
		}
	}

	return Config{
		Addr:          getenv("DASHBOARD_ADDR", defaultAddr),
		PluginPath:    os.Getenv("SDG_PLUGIN_PATH"),
		TemplatePath:  getenv("TEMPLATE_PATH", "../frontend/templates/"),
		StaticPath:    getenv("STATIC_PATH", "../frontend/static/"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionDir:    os.Getenv("SESSION_DIR"),
		HistoryDriver: os.Getenv("HISTORY_DRIVER"),
		HistoryDSN:    os.Getenv("HISTORY_DSN"),
		SmokeSchedule: os.Getenv("SMOKE_SCHEDULE"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("DASHBOARD_ADDR required")
	}
	switch c.HistoryDriver {
	case "":
	case driverSQLite, driverPostgres:
		if c.HistoryDSN == "" {
			return fmt.Errorf("HISTORY_DSN required when HISTORY_DRIVER is %q", c.HistoryDriver)
		}
	default:
		return fmt.Errorf("unsupported HISTORY_DRIVER %q (want %q or %q)", c.HistoryDriver, driverSQLite, driverPostgres)
	}
	if c.SmokeSchedule != "" {
		if _, err := cron.ParseStandard(c.SmokeSchedule); err != nil {
			return fmt.Errorf("invalid SMOKE_SCHEDULE %q: %w", c.SmokeSchedule, err)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// sessionKey returns the configured secret, or a random key when none is
// set. Flashes then do not survive a restart.
func (c Config) sessionKey() ([]byte, error) {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret), nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, fmt.Errorf("generate session key")
	}
	return key, nil
}
