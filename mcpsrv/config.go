package mcpsrv

import (
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/viper"

	"github.com/qyinm/storesearch/catalog"
)

// EnvPrefix prefixes server settings, e.g. STORESEARCH_MCP_API_KEY.
const EnvPrefix = "STORESEARCH_MCP"

type Config struct {
	Port               string
	BaseURL            string
	AllowedOrigins     []string
	Stateless          bool
	EnableAdmin        bool
	APIKey             string
	RPS                float64
	Burst              int
	SessionTimeout     time.Duration
	CacheClearInterval time.Duration
	CacheSize          int
	RequestTimeout     time.Duration
	LogLevel           string
}

// LoadConfig reads the server settings from the environment. Values that
// are missing or do not parse fall back to defaults.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms set.
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")

	v.SetDefault("port", "8080")
	v.SetDefault("base_url", catalog.DefaultBaseURL)
	v.SetDefault("stateless", false)
	v.SetDefault("enable_admin", false)
	v.SetDefault("rps", 2.0)
	v.SetDefault("burst", 5)
	v.SetDefault("session_timeout", 15*time.Minute)
	v.SetDefault("cache_clear_interval", 30*time.Minute)
	v.SetDefault("cache_size", catalog.DefaultCacheSize)
	v.SetDefault("request_timeout", catalog.DefaultTimeout)
	v.SetDefault("log_level", "info")

	cfg := Config{
		Port:               strings.TrimSpace(v.GetString("port")),
		BaseURL:            strings.TrimSpace(v.GetString("base_url")),
		AllowedOrigins:     parseCSV(v.GetString("allowed_origins")),
		Stateless:          v.GetBool("stateless"),
		EnableAdmin:        v.GetBool("enable_admin"),
		APIKey:             strings.TrimSpace(v.GetString("api_key")),
		RPS:                v.GetFloat64("rps"),
		Burst:              v.GetInt("burst"),
		SessionTimeout:     v.GetDuration("session_timeout"),
		CacheClearInterval: v.GetDuration("cache_clear_interval"),
		CacheSize:          v.GetInt("cache_size"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		LogLevel:           v.GetString("log_level"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = catalog.DefaultCacheSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = catalog.DefaultTimeout
	}

	return cfg
}

// AdminEnabled reports whether admin tools may be registered: they need
// both the flag and an API key guarding the endpoint.
func (c Config) AdminEnabled() bool {
	return c.EnableAdmin && c.APIKey != ""
}

func StreamableOptions(cfg Config) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
