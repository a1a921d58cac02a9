// Package config loads glitchid settings from a TOML file.
//
// The file is optional. Every field has a default, and a file only needs to
// name the values it changes:
//
//	[render]
//	identity = "neo"
//	format = "jpeg"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":9000"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[sources]
//	github_token = "ghp_..."
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config and cache directories.
const AppName = "glitchid"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the full settings tree.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Sources SourcesConfig `toml:"sources"`
}

// RenderConfig sets render defaults for the CLI and server.
type RenderConfig struct {
	Identity string `toml:"identity"`
	Format   string `toml:"format"`
	Size     int    `toml:"size"`
	Workers  int    `toml:"workers"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"` // file, redis or none
	Dir           string        `toml:"dir"`     // file backend; empty means the XDG cache dir
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxUploadBytes  int64         `toml:"max_upload_bytes"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StoreConfig selects the render archive.
type StoreConfig struct {
	Backend   string        `toml:"backend"` // memory, file or mongo
	Dir       string        `toml:"dir"`     // file backend; empty means the XDG data dir
	Capacity  int           `toml:"capacity"`
	MongoURI  string        `toml:"mongo_uri"`
	Database  string        `toml:"database"`
	Retention time.Duration `toml:"retention"`
}

// SourcesConfig holds credentials for remote avatar providers. Empty
// tokens fall back to $GITHUB_TOKEN and $GITLAB_TOKEN.
type SourcesConfig struct {
	GitHubToken string `toml:"github_token"`
	GitLabToken string `toml:"gitlab_token"`
}

// GitHub returns the GitHub token, falling back to $GITHUB_TOKEN.
func (s SourcesConfig) GitHub() string {
	if s.GitHubToken != "" {
		return s.GitHubToken
	}
	return os.Getenv("GITHUB_TOKEN")
}

// GitLab returns the GitLab token, falling back to $GITLAB_TOKEN.
func (s SourcesConfig) GitLab() string {
	if s.GitLabToken != "" {
		return s.GitLabToken
	}
	return os.Getenv("GITLAB_TOKEN")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Format: "png",
			Size:   500,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    AppName + ":",
			TTL:       7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  10 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:  BackendMemory,
			Capacity: 256,
			Database: AppName,
		},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/glitchid/config.toml or ~/.config/glitchid/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path on top of the defaults. An empty path means the default
// location, where a missing file is not an error. Unknown keys are.
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
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks backend names and limits.
func (c Config) Validate() error {
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{BackendMemory, BackendFile, BackendMongo}, c.Store.Backend) {
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New("store.mongo_uri is required for the mongo backend")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}
