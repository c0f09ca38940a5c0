package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Birthdays BirthdaysConfig `mapstructure:"birthdays"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Log       LogConfig       `mapstructure:"log"`
}

// StorageConfig represents address book file configuration
type StorageConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // "json", "yaml" or empty to detect by extension
}

// BirthdaysConfig represents upcoming birthday query settings
type BirthdaysConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// ReminderConfig represents reminder daemon configuration
type ReminderConfig struct {
	DailyTime  string `mapstructure:"daily_time"` // HH:MM, local time
	SystemTray bool   `mapstructure:"system_tray"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const (
	defaultDailyHour   = 9
	defaultDailyMinute = 0
)

// Load loads configuration from file, environment and defaults.
// A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.address-book-bot")
	}

	// ADDRESSBOOK_STORAGE_FILE overrides storage.file
	v.SetEnvPrefix("addressbook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.file", "addressbook.json")
	v.SetDefault("storage.format", "")
	v.SetDefault("birthdays.window_days", 7)
	v.SetDefault("reminder.daily_time", "09:00")
	v.SetDefault("reminder.system_tray", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.File == "" {
		return fmt.Errorf("storage.file is required")
	}

	switch strings.ToLower(c.Storage.Format) {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("storage.format must be 'json' or 'yaml', got '%s'", c.Storage.Format)
	}

	if c.Birthdays.WindowDays < 0 {
		return fmt.Errorf("birthdays.window_days must not be negative")
	}

	if c.Reminder.DailyTime != "" {
		if _, _, ok := parseDailyTime(c.Reminder.DailyTime); !ok {
			return fmt.Errorf("reminder.daily_time must be HH:MM, got '%s'", c.Reminder.DailyTime)
		}
	}

	return nil
}

// GetFormat returns the normalized storage format (empty means detect by extension)
func (c *StorageConfig) GetFormat() string {
	return strings.ToLower(c.Format)
}

// GetDailyTime returns the configured reminder time.
// Returns hour and minute (0-23, 0-59). Default: 09:00
func (c *ReminderConfig) GetDailyTime() (hour, minute int) {
	h, m, ok := parseDailyTime(c.DailyTime)
	if !ok {
		return defaultDailyHour, defaultDailyMinute
	}
	return h, m
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Storage.File = os.ExpandEnv(c.Storage.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

func parseDailyTime(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
