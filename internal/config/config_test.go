package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("D_TOKEN", "token")
	for _, k := range []string{"LEADERBOARD_CHANNEL", "CONFIG_BOT_CHANNEL", "DATA_FILE", "MSG_ID_FILE", "PLAYFAB_ID_PATTERN", "REFRESH_INTERVAL", "WATCH_DATA_FILE", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "./persist/leaderboard.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.MessageIDFile != "./persist/leaderboard_msg_id" {
		t.Errorf("MessageIDFile = %q", cfg.MessageIDFile)
	}
	if cfg.PlayfabIDPattern != `^\S{14,16}$` {
		t.Errorf("PlayfabIDPattern = %q", cfg.PlayfabIDPattern)
	}
	if cfg.RefreshInterval != 10*time.Minute {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval)
	}
	if !cfg.WatchDataFile {
		t.Error("WatchDataFile should default to true")
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestLoadDotenv(t *testing.T) {
	for _, k := range []string{"D_TOKEN", "LEADERBOARD_CHANNEL", "CONFIG_BOT_CHANNEL", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("CONFIG_BOT_CHANNEL", "222")

	path := filepath.Join(t.TempDir(), ".env")
	content := "D_TOKEN=abc\nLEADERBOARD_CHANNEL=111\nCONFIG_BOT_CHANNEL=999\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "abc" || cfg.LeaderboardChannel != "111" {
		t.Errorf("dotenv values not applied: %+v", cfg)
	}
	if cfg.ConfigBotChannel != "222" {
		t.Errorf("environment should win over dotenv, got %q", cfg.ConfigBotChannel)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
}

func TestNonNumericChannelIsUnset(t *testing.T) {
	t.Setenv("LEADERBOARD_CHANNEL", "general")
	t.Setenv("CONFIG_BOT_CHANNEL", " 12345 ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LeaderboardChannel != "" {
		t.Errorf("LeaderboardChannel = %q, want empty", cfg.LeaderboardChannel)
	}
	if cfg.ConfigBotChannel != "12345" {
		t.Errorf("ConfigBotChannel = %q", cfg.ConfigBotChannel)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{}).Validate(); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Validate() = %v, want ErrMissingToken", err)
	}
	if err := (&Config{Token: "x"}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
