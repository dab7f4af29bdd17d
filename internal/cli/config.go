package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds defaults read from config.toml. Flags override every field.
//
//	pretty = true
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	dir = "/var/cache/ldraw"
//	ttl = "48h"
type Config struct {
	Pretty bool         `toml:"pretty"`
	Binary bool         `toml:"binary"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig configures `ldraw serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	RedisURL string   `toml:"redis_url"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string such as "36h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
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

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{Server: ServerConfig{Addr: ":8080"}}
}

// configFile returns $XDG_CONFIG_HOME/ldraw/config.toml, falling back to
// ~/.config/ldraw/config.toml.
func configFile() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}

// loadConfig reads path over the defaults. A missing file is only an
// error when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return DefaultConfig(), fmt.Errorf("config %s: unknown key %q", path, keys[0].String())
	}
	return cfg, nil
}
