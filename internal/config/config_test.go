package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  file: "/tmp/contacts.yaml"
  format: "yaml"

birthdays:
  window_days: 14

reminder:
  daily_time: "08:30"
  system_tray: true

log:
  file: "logs/bot.log"
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/contacts.yaml", cfg.Storage.File)
	assert.Equal(t, "yaml", cfg.Storage.GetFormat())
	assert.Equal(t, 14, cfg.Birthdays.WindowDays)
	assert.True(t, cfg.Reminder.SystemTray)
	assert.Equal(t, "logs/bot.log", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)

	hour, minute := cfg.Reminder.GetDailyTime()
	assert.Equal(t, 8, hour)
	assert.Equal(t, 30, minute)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "addressbook.json", cfg.Storage.File)
	assert.Equal(t, "", cfg.Storage.GetFormat())
	assert.Equal(t, 7, cfg.Birthdays.WindowDays)
	assert.False(t, cfg.Reminder.SystemTray)
	assert.Equal(t, "warn", cfg.Log.Level)

	hour, minute := cfg.Reminder.GetDailyTime()
	assert.Equal(t, 9, hour)
	assert.Equal(t, 0, minute)
}

func TestLoadSearchesHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".address-book-bot")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("birthdays:\n  window_days: 21\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.Birthdays.WindowDays)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ADDRESSBOOK_STORAGE_FILE", "/data/book.json")
	t.Setenv("ADDRESSBOOK_BIRTHDAYS_WINDOW_DAYS", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/data/book.json", cfg.Storage.File)
	assert.Equal(t, 3, cfg.Birthdays.WindowDays)
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Negative window", "birthdays:\n  window_days: -1\n"},
		{"Unknown format", "storage:\n  format: xml\n"},
		{"Bad daily time", "reminder:\n  daily_time: \"25:00\"\n"},
		{"Daily time with trailing text", "reminder:\n  daily_time: \"09:00junk\"\n"},
		{"Broken yaml", "storage: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestGetDailyTimeFallback(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
	}{
		{"", 9, 0},
		{"07:05", 7, 5},
		{"09:00junk", 9, 0},
		{"23:59", 23, 59},
		{"24:00", 9, 0},
		{"noon", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := ReminderConfig{DailyTime: tt.value}
			hour, minute := c.GetDailyTime()
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BOOK_HOME", "/home/me")

	cfg := &Config{Storage: StorageConfig{File: "$BOOK_HOME/book.json"}}
	cfg.ExpandEnvVars()

	assert.Equal(t, "/home/me/book.json", cfg.Storage.File)
}
