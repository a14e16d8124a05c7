// Package config loads item-cache settings from defaults, an optional YAML
// file and ITEMCACHE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/item-cache/pkg/items"
	"github.com/Sternrassler/item-cache/pkg/logging"
)

// EnvPrefix prefixes every environment override, e.g. ITEMCACHE_CACHE_LIST_TTL.
const EnvPrefix = "ITEMCACHE"

// Config keys.
const (
	KeyServerAddr      = "server.addr"
	KeyListTTL         = "cache.list-ttl"
	KeyItemTTL         = "cache.item-ttl"
	KeyCleanupInterval = "cache.cleanup-interval"
	KeyCoalesce        = "cache.coalesce"
	KeyLogLevel        = "log.level"
	KeyLogPretty       = "log.pretty"
)

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// CacheConfig holds durations in whole seconds; 0 disables the setting.
type CacheConfig struct {
	ListTTL         int  `mapstructure:"list-ttl"`
	ItemTTL         int  `mapstructure:"item-ttl"`
	CleanupInterval int  `mapstructure:"cleanup-interval"`
	Coalesce        bool `mapstructure:"coalesce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// New returns a viper instance with defaults and environment binding applied.
// Callers may bind flags to it before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyListTTL, 30)
	v.SetDefault(KeyItemTTL, 60)
	v.SetDefault(KeyCleanupInterval, 0)
	v.SetDefault(KeyCoalesce, false)
	v.SetDefault(KeyLogLevel, string(logging.LevelInfo))
	v.SetDefault(KeyLogPretty, false)
}

// Load reads configFile (if set) into v and decodes the result.
// An empty configFile searches ./configs and . for config.yaml and falls back
// to defaults and environment when none exists.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		return Config{}, errors.New("viper instance is required")
	}

	logger := logging.NewLogger("config")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logger.Debug().Msg("no config file found, using defaults and environment")
		} else {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		logger.Info().Str("path", v.ConfigFileUsed()).Msg("using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects negative durations and an empty listen address.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%s is required", KeyServerAddr)
	}

	for key, val := range map[string]int{
		KeyListTTL:         c.Cache.ListTTL,
		KeyItemTTL:         c.Cache.ItemTTL,
		KeyCleanupInterval: c.Cache.CleanupInterval,
	} {
		if val < 0 {
			return fmt.Errorf("%s must be >= 0 (got %d)", key, val)
		}
	}

	return nil
}

// Policy returns the cache-aside policy described by c.
func (c Config) Policy() items.Config {
	return items.Config{
		ListTTL:  seconds(c.Cache.ListTTL),
		ItemTTL:  seconds(c.Cache.ItemTTL),
		Coalesce: c.Cache.Coalesce,
	}
}

// CleanupInterval returns the janitor period; 0 means the janitor is off.
func (c Config) CleanupInterval() time.Duration {
	return seconds(c.Cache.CleanupInterval)
}

// Logging returns the logger setup described by c.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
