package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultListen     = "127.0.0.1:8080"
	DefaultSessionTTL = 30 * 24 * time.Hour
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultTheme      = "nord"
	EnvPrefix         = "PUNCH"
)

// Config holds application configuration
type Config struct {
	DataDir    string        `mapstructure:"data_dir"`
	DBPath     string        `mapstructure:"db_path"`
	Listen     string        `mapstructure:"listen"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	Theme      string        `mapstructure:"theme"`
	Notify     bool          `mapstructure:"notify"`
	Log        LogConfig     `mapstructure:"log"`
}

// LogConfig selects the log level and output format ("console" or "json")
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".punch"
	}
	return filepath.Join(home, ".local", "share", "punch")
}

// ConfigPath returns the default config file location
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".punch", "punch.yml")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "punch", "punch.yml")
}

// New returns a viper instance with defaults and PUNCH_* env overrides bound
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("db_path", "")
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("session_ttl", DefaultSessionTTL)
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("notify", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file (if present) into v and decodes the result.
// An empty path means ConfigPath(); a missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if explicit || !(notFound || os.IsNotExist(err)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "punch.db")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	return &cfg, nil
}
