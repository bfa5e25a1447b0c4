// Package config loads the bot settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("D_TOKEN is required")

// Config holds every setting the bot reads at startup.
type Config struct {
	Token              string        `env:"D_TOKEN"`
	LeaderboardChannel string        `env:"LEADERBOARD_CHANNEL"`
	ConfigBotChannel   string        `env:"CONFIG_BOT_CHANNEL"`
	DataFile           string        `env:"DATA_FILE" envDefault:"./persist/leaderboard.json"`
	MessageIDFile      string        `env:"MSG_ID_FILE" envDefault:"./persist/leaderboard_msg_id"`
	PlayfabIDPattern   string        `env:"PLAYFAB_ID_PATTERN" envDefault:"^\\S{14,16}$"`
	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL" envDefault:"10m"`
	WatchDataFile      bool          `env:"WATCH_DATA_FILE" envDefault:"true"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads dotenv files (when present) into the process environment and
// parses it. Variables already set take precedence over the files.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LeaderboardChannel = numericID(cfg.LeaderboardChannel)
	cfg.ConfigBotChannel = numericID(cfg.ConfigBotChannel)
	return &cfg, nil
}

// Validate checks the settings needed to connect to Discord.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds the process logger.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.Level(),
	}))
}

// numericID returns s when it is a Discord snowflake and "" otherwise, so a
// malformed channel setting behaves like an unset one.
func numericID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return ""
	}
	return s
}
