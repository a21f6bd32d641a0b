package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Search.MinLayover.Duration != time.Hour || cfg.Search.MaxLayover.Duration != 6*time.Hour {
		t.Errorf("layover window = %v..%v", cfg.Search.MinLayover, cfg.Search.MaxLayover)
	}
	if cfg.Cache.Backend != cache.BackendFile || cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("cache/server defaults = %q/%q", cfg.Cache.Backend, cfg.Server.Addr)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[search]
min_layover = "45m"
workers = 3

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
ttl = "1h30m"

[server]
addr = "127.0.0.1:9000"

[mongo]
collection = "schedule"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.MinLayover.Duration != 45*time.Minute {
		t.Errorf("min_layover = %v", cfg.Search.MinLayover)
	}
	if cfg.Search.MaxLayover.Duration != pipeline.DefaultMaxLayover {
		t.Errorf("unset max_layover = %v, want the default", cfg.Search.MaxLayover)
	}
	if cfg.Search.Workers != 3 || cfg.Cache.RedisDB != 2 || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Mongo.Collection != "schedule" || cfg.Mongo.Database != "routefinder" {
		t.Errorf("server/mongo = %+v / %+v", cfg.Server, cfg.Mongo)
	}

	opts := cfg.CacheOptions("/tmp/default")
	if opts.Backend != cache.BackendRedis || opts.RedisAddr != "localhost:6379" || opts.Dir != "/tmp/default" {
		t.Errorf("CacheOptions = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[search\n", "parse"},
		{"bad duration", "[search]\nmin_layover = \"soon\"\n", "parse"},
		{"unknown key", "[search]\nmax_stops = 2\n", "search.max_stops"},
		{"inverted window", "[search]\nmin_layover = \"7h\"\n", "exceeds maximum"},
		{"negative dwell", "[search]\nmin_dwell = \"-1h\"\n", "min_dwell"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", "unknown backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !rferrors.Is(err, rferrors.ErrCodeInvalidConfig) {
				t.Fatalf("error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !rferrors.Is(err, rferrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault without a file: %v", err)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	path, _ := DefaultPath()
	if path != filepath.Join(dir, "routefinder", "config.toml") {
		t.Errorf("DefaultPath() = %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadDefault()
	if err != nil || cfg.Server.Addr != ":9999" {
		t.Errorf("LoadDefault() = %+v, %v", cfg.Server, err)
	}
}

func TestApplySearch(t *testing.T) {
	cfg := Default()
	cfg.Search.MinLayover = Duration{30 * time.Minute}
	cfg.Search.Workers = 2

	opts := pipeline.Options{MaxLayover: 3 * time.Hour}
	cfg.ApplySearch(&opts)
	if opts.MinLayover != 30*time.Minute {
		t.Errorf("MinLayover = %v, want the configured 30m", opts.MinLayover)
	}
	if opts.MaxLayover != 3*time.Hour {
		t.Errorf("MaxLayover = %v, flag value must win", opts.MaxLayover)
	}
	if opts.Workers != 2 || opts.MinDwell != pipeline.DefaultMinDwell {
		t.Errorf("Workers/MinDwell = %d/%v", opts.Workers, opts.MinDwell)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil || d.Duration != 90*time.Minute {
		t.Errorf("UnmarshalText = %v, %v", d, err)
	}
	text, _ := d.MarshalText()
	if string(text) != "1h30m0s" {
		t.Errorf("MarshalText = %q", text)
	}
}
