package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akyairhashvil/streakboard/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	DataDir          string        `mapstructure:"data_dir" yaml:"data_dir"`
	DBFile           string        `mapstructure:"db_file" yaml:"db_file"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval" yaml:"reminder_interval"`
	Debug            bool          `mapstructure:"debug" yaml:"debug"`
	Theme            string        `mapstructure:"theme" yaml:"theme"`
	Notifications    bool          `mapstructure:"notifications" yaml:"notifications"`
}

// DefaultConfig returns the configuration used when no file or env override exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir:          util.DataDir(AppName),
		DBFile:           DBFileName,
		ReminderInterval: ReminderInterval,
		Theme:            ThemeSystem,
		Notifications:    true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/streakboard/config.yaml, or the
// STREAKBOARD_CONFIG override when set.
func DefaultPath() string {
	if custom := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); custom != "" {
		return custom
	}
	return filepath.Join(util.ConfigDir(AppName), "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// STREAKBOARD_* environment overrides on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("db_file", cfg.DBFile)
	v.SetDefault("reminder_interval", cfg.ReminderInterval)
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("notifications", cfg.Notifications)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.DataDir = util.ExpandHome(strings.TrimSpace(c.DataDir))
	if c.DataDir == "" {
		c.DataDir = util.DataDir(AppName)
	}
	if strings.TrimSpace(c.DBFile) == "" {
		c.DBFile = DBFileName
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = ReminderInterval
	}
	switch c.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		c.Theme = ThemeSystem
	}
}

// DBPath is the absolute location of the key/value database.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// LogPath is where the dashboard writes its log while it owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, LogFileName)
}

// WriteDefault writes the default configuration as YAML. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}
	raw, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to convert config to YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
