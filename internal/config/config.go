// Package config loads pathmind settings from an optional YAML file,
// PATHMIND_* environment variables and defaults, in that order of
// precedence from lowest to highest: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/pathmind/internal/llm"
	"github.com/abhisek/pathmind/internal/store"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
	LLM      llm.Config     `mapstructure:"llm"`
	User     UserConfig     `mapstructure:"user"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Addr        string          `mapstructure:"addr"`
	Mode        string          `mapstructure:"mode"`
	CORSOrigins []string        `mapstructure:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	SessionTTL  time.Duration   `mapstructure:"session_ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Mode       string `mapstructure:"mode"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type CacheConfig struct {
	// RedisAddr selects the Redis backend; empty means in-memory.
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type UserConfig struct {
	// ID pins the local identity; empty derives it from the OS user.
	ID string `mapstructure:"id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit.rps", 2.0)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("server.session_ttl", 30*time.Minute)

	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 24*time.Hour)

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("user.id", "")
}

// Load reads configuration. An explicit path must exist; otherwise
// ./pathmind.yaml and $XDG_CONFIG_HOME/pathmind/pathmind.yaml are tried
// and their absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PATHMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pathmind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.LLM.Provider == "" {
		cfg.LLM = discoverLLM(cfg.LLM)
	}
	return &cfg, nil
}

// discoverLLM picks the first provider with a key, configured keys first,
// then the vendors' own environment variables. Without any key the
// default provider is kept so Validate can name the missing setting.
func discoverLLM(c llm.Config) llm.Config {
	for _, p := range []string{llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOpenRouter} {
		c.Provider = p
		if c.HasKey() {
			return c
		}
	}
	if found, ok := llm.DiscoverConfig(); ok {
		found.Timeout = c.Timeout
		found.Retry = c.Retry
		return found
	}
	c.Provider = llm.ProviderGemini
	return c
}

// DatabaseDSN returns the configured DSN or, for SQLite, the default
// data path.
func (c *Config) DatabaseDSN() (string, error) {
	if c.Database.DSN != "" {
		if c.Database.Driver == store.DriverSQLite || c.Database.Driver == "" {
			return c.Database.DSN, store.EnsureDir(c.Database.DSN)
		}
		return c.Database.DSN, nil
	}
	if c.Database.Driver == store.DriverPostgres {
		return "", errors.New("database.dsn (PATHMIND_DATABASE_DSN) is required for postgres")
	}
	return store.DefaultDBPath()
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pathmind"), nil
}
