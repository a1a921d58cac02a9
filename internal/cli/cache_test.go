package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glitchid/pkg/cache"
	"github.com/matzehuels/glitchid/pkg/config"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\ndir = "+quote(dir)+"\n")

	out, err := execute(t, "cache", "path", "--config", cfg)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeConfig(t, "[cache]\ndir = "+quote(dir)+"\n")
	if _, err := execute(t, "cache", "clear", "--config", cfg); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, ok, _ := fc.Get(ctx, key); ok {
			t.Errorf("key %q survived cache clear", key)
		}
	}
}

func TestCacheClearNonFileBackend(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	if _, err := execute(t, "cache", "clear", "--config", cfg); err != nil {
		t.Errorf("cache clear with backend none: %v", err)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
		check   func(t *testing.T, c cache.Cache)
	}{
		{
			name:    "no-cache flag",
			cfg:     config.CacheConfig{Backend: config.BackendFile, Dir: dir},
			noCache: true,
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Errorf("got %T, want *cache.NullCache", c)
				}
			},
		},
		{
			name: "backend none",
			cfg:  config.CacheConfig{Backend: config.BackendNone},
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Errorf("got %T, want *cache.NullCache", c)
				}
			},
		},
		{
			name: "file backend",
			cfg:  config.CacheConfig{Backend: config.BackendFile, Dir: dir},
			check: func(t *testing.T, c cache.Cache) {
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
				if fc.Dir() != dir {
					t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, keyer, err := newCache(ctx, tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer c.Close()
			if keyer != nil {
				t.Errorf("keyer = %T, want nil for local backends", keyer)
			}
			tt.check(t, c)
		})
	}
}

func TestNewRunnerTTL(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	cfg.Cache.TTL = 90 * time.Minute

	c := New(&bytes.Buffer{}, log.InfoLevel)
	runner, err := c.newRunner(context.Background(), cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()
	if runner.TTL != 90*time.Minute {
		t.Errorf("TTL = %v, want 1h30m", runner.TTL)
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
