// Package config loads waypoint's TOML configuration file.
//
// Every field has a default, so a missing file is not an error unless the
// caller asked for it explicitly. Command-line flags override file values;
// that merge happens in the CLI.
//
//	[search]
//	max_depth = 1000
//	strategy = "prune"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_depth_limit = 64
//	max_visits = 1000000
//	search_timeout = "10s"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/waypoint/pkg/cache"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/search"
)

const appName = "waypoint"

// Config is the root of the configuration file.
type Config struct {
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SearchConfig holds search defaults for the CLI.
type SearchConfig struct {
	MaxDepth    int    `toml:"max_depth"`
	Strategy    string `toml:"strategy"`
	ShowGraph   bool   `toml:"show_graph"`
	Concurrency int    `toml:"concurrency"`

	// MaxVisits aborts a CLI search after that many visits; 0 disables it.
	MaxVisits int `toml:"max_visits"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	TTL           time.Duration `toml:"ttl"`
	Dir           string        `toml:"dir"`
	Prefix        string        `toml:"prefix"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

// ServerConfig configures `waypoint serve`.
type ServerConfig struct {
	Addr          string        `toml:"addr"`
	MaxDepthLimit int           `toml:"max_depth_limit"`
	MaxVisits     int           `toml:"max_visits"`
	SearchTimeout time.Duration `toml:"search_timeout"`
	MaxBodyBytes  int64         `toml:"max_body_bytes"`
	ReadTimeout   time.Duration `toml:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			MaxDepth:    search.DefaultMaxDepth,
			Strategy:    search.StrategyNamePrune,
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			TTL:           cache.TTLSearch,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxDepthLimit: 64,
			MaxVisits:     1_000_000,
			SearchTimeout: 10 * time.Second,
			MaxBodyBytes:  4 << 20,
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/waypoint/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, and then a missing file yields the defaults. Unknown keys
// are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return cfg, errors.Wrap(errors.ErrCodeMalformedInput, err, "config file %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeMalformedInput,
			"config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := errors.ValidateMaxDepth(c.Search.MaxDepth, 0); err != nil {
		return err
	}
	if _, err := search.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	if c.Search.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "search.concurrency must be positive")
	}
	switch strings.ToLower(c.Cache.Backend) {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl cannot be negative")
	}
	if c.Server.MaxDepthLimit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_depth_limit cannot be negative")
	}
	if c.Search.MaxVisits < 0 || c.Server.MaxVisits < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_visits cannot be negative")
	}
	if c.Server.SearchTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.search_timeout cannot be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log.level")
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open. defaultDir is
// used when no directory is configured.
func (c CacheConfig) CacheOptions(defaultDir string) cache.Config {
	dir := c.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Config{
		Backend: c.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:      c.MongoURI,
			Database: c.MongoDatabase,
		},
	}
}

// ParsedLevel returns the log level, info when unparsable.
func (c LogConfig) ParsedLevel() log.Level {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
