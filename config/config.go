package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/qyinm/storesearch/catalog"
	"github.com/qyinm/storesearch/types"
)

// EnvPrefix prefixes every environment override, e.g. STORESEARCH_MODE.
const EnvPrefix = "STORESEARCH"

// Config represents the application configuration
type Config struct {
	Mode             string `mapstructure:"mode" toml:"mode" comment:"server-search or client-filter"`
	BaseURL          string `mapstructure:"base_url" toml:"base_url" comment:"root of the store API; products are read from <base_url>/products"`
	DebounceMs       int    `mapstructure:"debounce_ms" toml:"debounce_ms" comment:"quiet period after the last keystroke before searching"`
	ResultLimit      int    `mapstructure:"result_limit" toml:"result_limit" comment:"limit sent with server-side searches"`
	Select           string `mapstructure:"select" toml:"select" comment:"multi keeps a list of picks, single keeps one"`
	RequestTimeoutMs int    `mapstructure:"request_timeout_ms" toml:"request_timeout_ms"`
	CacheSize        int    `mapstructure:"cache_size" toml:"cache_size" comment:"cached search responses"`
	LogFile          string `mapstructure:"log_file" toml:"log_file" comment:"empty disables logging"`
	LogLevel         string `mapstructure:"log_level" toml:"log_level"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Mode:             types.ServerSearch.String(),
		BaseURL:          catalog.DefaultBaseURL,
		DebounceMs:       300,
		ResultLimit:      15,
		Select:           types.MultiSelect.String(),
		RequestTimeoutMs: int(catalog.DefaultTimeout / time.Millisecond),
		CacheSize:        catalog.DefaultCacheSize,
		LogFile:          "storesearch.log",
		LogLevel:         "info",
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"mode":      "mode",
	"base-url":  "base_url",
	"debounce":  "debounce_ms",
	"limit":     "result_limit",
	"select":    "select",
	"timeout":   "request_timeout_ms",
	"log-file":  "log_file",
	"log-level": "log_level",
}

// RegisterFlags adds the override flags Load understands.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String("mode", def.Mode, "data source: server-search or client-filter")
	flags.String("base-url", def.BaseURL, "store API base URL")
	flags.Int("debounce", def.DebounceMs, "debounce window in milliseconds")
	flags.Int("limit", def.ResultLimit, "result limit for server-side search")
	flags.String("select", def.Select, "selection mode: multi or single")
	flags.Int("timeout", def.RequestTimeoutMs, "request timeout in milliseconds")
	flags.String("log-file", def.LogFile, "log file path, empty to disable")
	flags.String("log-level", def.LogLevel, "log level")
}

// Load resolves the configuration. Later sources win: defaults, the TOML
// file at path (a missing file is not an error), STORESEARCH_* environment
// variables, then flags that were set explicitly. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("mode", def.Mode)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("debounce_ms", def.DebounceMs)
	v.SetDefault("result_limit", def.ResultLimit)
	v.SetDefault("select", def.Select)
	v.SetDefault("request_timeout_ms", def.RequestTimeoutMs)
	v.SetDefault("cache_size", def.CacheSize)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := types.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := types.ParseSelectMode(c.Select); err != nil {
		errs = append(errs, err)
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base_url %q", c.BaseURL))
	}
	if c.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("debounce_ms must be positive, got %d", c.DebounceMs))
	}
	if c.ResultLimit <= 0 {
		errs = append(errs, fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit))
	}
	if c.RequestTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms must be positive, got %d", c.RequestTimeoutMs))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	return errors.Join(errs...)
}

// DataMode returns the parsed mode. Call Validate first.
func (c Config) DataMode() types.Mode {
	m, _ := types.ParseMode(c.Mode)
	return m
}

// SelectMode returns the parsed select mode. Call Validate first.
func (c Config) SelectMode() types.SelectMode {
	s, _ := types.ParseSelectMode(c.Select)
	return s
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// DefaultPath returns $XDG_CONFIG_HOME/storesearch/config.toml or its
// platform equivalent.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "storesearch", "config.toml")
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes cfg as TOML to path, creating the directory.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
