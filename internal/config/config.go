// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/example/dailyquest/internal/database"
)

type Config struct {
	DBType      string `env:"DB_TYPE" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"data/dailyquest.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	TZName   string `env:"TZ_NAME"`
	UserKey  string `env:"USER_KEY" envDefault:"main_user"`

	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	EnableScheduler       bool `env:"ENABLE_SCHEDULER" envDefault:"true"`
	ReminderHour          int  `env:"REMINDER_HOUR" envDefault:"20"`
	NotificationStartHour int  `env:"NOTIFICATION_START_HOUR" envDefault:"8"`
	NotificationEndHour   int  `env:"NOTIFICATION_END_HOUR" envDefault:"22"`
}

// Load reads the given .env files (missing files are skipped) and parses the
// environment. Variables already set in the process win over .env values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite", "sqlite3":
	case "postgres", "postgresql":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	for name, h := range map[string]int{
		"REMINDER_HOUR":           c.ReminderHour,
		"NOTIFICATION_START_HOUR": c.NotificationStartHour,
		"NOTIFICATION_END_HOUR":   c.NotificationEndHour,
	} {
		if h < 0 || h > 23 {
			return fmt.Errorf("%s must be between 0 and 23, got %d", name, h)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TZ_NAME. Empty means the local zone of the host.
func (c *Config) Location() (*time.Location, error) {
	if c.TZName == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TZName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", c.TZName, err)
	}
	return loc, nil
}

func (c *Config) Database() database.Config {
	return database.Config{Type: c.DBType, Path: c.DBPath, URL: c.DatabaseURL}
}

// TelegramEnabled reports whether the Telegram front end should run.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}
