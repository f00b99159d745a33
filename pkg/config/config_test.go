package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[render]
quality = "h"
format = "gif"
media_dir = "out"

[cache]
backend = "pebble"
namespace = "course"

[scenes.bst]
values = [8, 3, 10, 1, 6]

[scenes.SortingVisualization]
values = [3, 2, 1]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Quality != "h" || cfg.Render.Format != "gif" || cfg.Render.MediaDir != "out" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != "pebble" || cfg.Cache.Namespace != "course" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// Unset sections keep their defaults.
	if cfg.History.Backend != HistoryFile || cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("defaults lost: %+v %+v", cfg.History, cfg.Server)
	}

	bst, _ := scene.Lookup("bst")
	if got := cfg.Dataset(bst).Values; !slices.Equal(got, []float64{8, 3, 10, 1, 6}) {
		t.Errorf("bst dataset = %v", got)
	}
	sorting, _ := scene.Lookup("sort")
	if got := cfg.Dataset(sorting).Values; !slices.Equal(got, []float64{3, 2, 1}) {
		t.Errorf("sort dataset by class name = %v", got)
	}
	list, _ := scene.Lookup("list")
	if got := cfg.Dataset(list).Values; got != nil {
		t.Errorf("list dataset = %v, want none", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[render\n", "load"},
		{"unknown key", "[render]\ncolour = \"red\"\n", "unknown keys: render.colour"},
		{"quality", "[render]\nquality = \"z\"\n", "invalid quality"},
		{"format", "[render]\nformat = \"avi\"\n", "invalid format"},
		{"cache backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"redis url", "[cache]\nbackend = \"redis\"\n", "redis_url is required"},
		{"history backend", "[history]\nbackend = \"sqlite\"\n", "history.backend"},
		{"mongo uri", "[history]\nbackend = \"mongo\"\n", "mongo_uri is required"},
		{"scene", "[scenes.heap]\nvalues = [1]\n", "scenes.heap"},
		{"nan value", "[scenes.bst]\nvalues = [1.0, nan]\n", "scenes.bst.values[1] is not a finite number"},
		{"inf value", "[scenes.sort]\nvalues = [-inf]\n", "scenes.sort.values[0] is not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want INVALID_CONFIG", apperr.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Render != Default().Render {
		t.Errorf("render = %+v", cfg.Render)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit file should fail")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", appName, FileName) {
		t.Errorf("Path = %s", p)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	p, err = Path()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if p != filepath.Join(home, ".config", appName, FileName) {
		t.Errorf("Path = %s", p)
	}
}

func TestWatcher(t *testing.T) {
	path := writeConfig(t, "[render]\nquality = \"l\"\n")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 4)
	go w.Run(ctx, func(cfg Config, err error) {
		if err == nil {
			got <- cfg
		}
	})

	if err := os.WriteFile(path, []byte("[render]\nquality = \"k\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		if cfg.Render.Quality != "k" {
			t.Errorf("reloaded quality = %s", cfg.Render.Quality)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}
