// Package config reads the routefinder configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/routefinder/config.toml
// (~/.config/routefinder/config.toml when XDG_CONFIG_HOME is unset) unless
// --config names another path. Every key is optional:
//
//	[search]
//	min_layover = "1h"
//	max_layover = "6h"
//	min_dwell = "1h"
//	workers = 4
//
//	[cache]
//	backend = "redis"        # file, redis or none
//	ttl = "24h"
//	dir = "/var/cache/routefinder"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	prefix = "prod:"
//
//	[server]
//	addr = ":8080"
//
//	[mongo]
//	database = "routefinder"
//	collection = "flights"
//
// Command-line flags take precedence over the file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/pipeline"
	"github.com/matzehuels/routefinder/pkg/source/mongo"
)

const appName = "routefinder"

// DefaultServerAddr is the listen address of the API server.
const DefaultServerAddr = ":8080"

// Duration is a time.Duration written as a string such as "1h30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration file.
type Config struct {
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// SearchConfig tunes graph construction and round trips.
type SearchConfig struct {
	MinLayover Duration `toml:"min_layover"`
	MaxLayover Duration `toml:"max_layover"`
	MinDwell   Duration `toml:"min_dwell"`
	Workers    int      `toml:"workers"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig locates flights in MongoDB.
type MongoConfig struct {
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Search: SearchConfig{
			MinLayover: Duration{pipeline.DefaultMinLayover},
			MaxLayover: Duration{pipeline.DefaultMaxLayover},
			MinDwell:   Duration{pipeline.DefaultMinDwell},
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{pipeline.DefaultCacheTTL},
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Mongo: MongoConfig{
			Database:   mongo.DefaultDatabase,
			Collection: mongo.DefaultCollection,
		},
	}
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, rferrors.Wrap(rferrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, rferrors.Wrap(rferrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, rferrors.New(rferrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault reads the file at [DefaultPath], falling back to [Default]
// when it does not exist.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if rferrors.Is(err, rferrors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects values no component accepts.
func (c Config) Validate() error {
	s := c.Search
	if err := pipeline.ValidateLayoverWindow(s.MinLayover.Duration, s.MaxLayover.Duration); err != nil {
		return rferrors.Wrap(rferrors.ErrCodeInvalidConfig, err, "[search]")
	}
	if s.MinDwell.Duration < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidConfig, "[search] min_dwell cannot be negative: %s", s.MinDwell)
	}
	if s.Workers < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidConfig, "[search] workers cannot be negative: %d", s.Workers)
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return rferrors.New(rferrors.ErrCodeInvalidConfig, "[cache] redis backend needs redis_addr")
		}
	default:
		return rferrors.New(rferrors.ErrCodeInvalidConfig, "[cache] unknown backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidConfig, "[cache] ttl cannot be negative: %s", c.Cache.TTL)
	}
	if c.Cache.RedisDB < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidConfig, "[cache] redis_db cannot be negative: %d", c.Cache.RedisDB)
	}
	return nil
}

// ApplySearch copies the search settings into opts where opts leaves them
// unset.
func (c Config) ApplySearch(opts *pipeline.Options) {
	if opts.MinLayover == 0 {
		opts.MinLayover = c.Search.MinLayover.Duration
	}
	if opts.MaxLayover == 0 {
		opts.MaxLayover = c.Search.MaxLayover.Duration
	}
	if opts.MinDwell == 0 {
		opts.MinDwell = c.Search.MinDwell.Duration
	}
	if opts.Workers == 0 {
		opts.Workers = c.Search.Workers
	}
}

// CacheOptions returns the backend settings for [cache.Open]. defaultDir is
// used when the file does not set a directory.
func (c Config) CacheOptions(defaultDir string) cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
}
