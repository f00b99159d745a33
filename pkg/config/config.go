// Package config loads algoreel's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/algoreel/config.toml (or
// ~/.config/algoreel/config.toml) unless --config names another path.
// Every key is optional; command-line flags override the file and the
// file overrides built-in defaults.
//
//	[render]
//	quality = "h"
//	format = "gif"
//	media_dir = "out"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[history]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[scenes.bst]
//	values = [8, 3, 10, 1, 6, 14, 4, 7, 13]
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/algoreel/pkg/cache"
	"github.com/matzehuels/algoreel/pkg/encode"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/scene"
)

const appName = "algoreel"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// History backends.
const (
	HistoryFile  = "file"
	HistoryMongo = "mongo"
	HistoryNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Render  Render                   `toml:"render"`
	Cache   Cache                    `toml:"cache"`
	History History                  `toml:"history"`
	Server  Server                   `toml:"server"`
	Scenes  map[string]scene.Dataset `toml:"scenes"`
}

// Render holds rendering defaults.
type Render struct {
	Quality       string `toml:"quality"`
	Format        string `toml:"format"`
	MediaDir      string `toml:"media_dir"`
	Preview       bool   `toml:"preview"`
	SaveLastFrame bool   `toml:"save_last_frame"`
	Workers       int    `toml:"workers"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
}

// History selects where run records are kept.
type History struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures `algoreel serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: Render{
			Quality:  encode.DefaultQuality.Name,
			Format:   string(encode.DefaultFormat),
			MediaDir: encode.DefaultMediaDir,
		},
		Cache:   Cache{Backend: cache.BackendFile},
		History: History{Backend: HistoryFile, Database: appName, Collection: "runs"},
		Server:  Server{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the default config file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, FileName), nil
}

// Load reads path on top of [Default] and validates the result.
// If path is empty the default location is used, and a missing default
// file is not an error. An explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks enumerated values, scene names and dataset values.
func (c Config) Validate() error {
	if _, err := encode.ParseQuality(c.Render.Quality); err != nil {
		return err
	}
	if _, err := encode.ParseFormat(c.Render.Format); err != nil {
		return err
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must not be negative")
	}

	backends := []string{cache.BackendFile, cache.BackendPebble, cache.BackendRedis, cache.BackendNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend %q (must be one of: %s)", c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	}

	histories := []string{HistoryFile, HistoryMongo, HistoryNone}
	if !slices.Contains(histories, c.History.Backend) {
		return fmt.Errorf("history.backend %q (must be one of: %s)", c.History.Backend, strings.Join(histories, ", "))
	}
	if c.History.Backend == HistoryMongo && c.History.MongoURI == "" {
		return fmt.Errorf("history.mongo_uri is required for the mongo backend")
	}

	names := make([]string, 0, len(c.Scenes))
	for name := range c.Scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := scene.Lookup(name); err != nil {
			return fmt.Errorf("scenes.%s: %w", name, err)
		}
		for i, v := range c.Scenes[name].Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("scenes.%s.values[%d] is not a finite number", name, i)
			}
		}
	}
	return nil
}

// Dataset returns the configured dataset override for a scene, or an
// empty dataset (meaning the scene's defaults) when there is none.
func (c Config) Dataset(def scene.Definition) scene.Dataset {
	for name, ds := range c.Scenes {
		if strings.EqualFold(name, def.Name) || strings.EqualFold(name, def.Class) {
			return ds
		}
	}
	return scene.Dataset{}
}
