package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	opts := cfg.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("default pipeline options invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[layout]
width = 1200
min_scale_ratio = 0.25
max_scale_ratio = 3

[theme]
match = "#E67E22"
selected = "#03f"

[export]
converter = "chrome"
formats = ["svg", "latex"]

[cache]
backend = "none"

[server]
addr = "127.0.0.1:9000"
request_timeout = "5s"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Layout.Width != 1200 || cfg.Layout.Height != 400 {
		t.Errorf("layout = %+v, want width override and default height", cfg.Layout)
	}
	if cfg.Theme.Match != "#e67e22" {
		t.Errorf("match colour should be normalized, got %s", cfg.Theme.Match)
	}
	if cfg.Theme.Selected != "#0033ff" {
		t.Errorf("short hex should expand, got %s", cfg.Theme.Selected)
	}
	if cfg.Theme.Path != "#333333" {
		t.Errorf("unset colour should keep default, got %s", cfg.Theme.Path)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}

	opts := cfg.Options()
	if opts.MinScale != 0.25 || opts.MaxScale != 3 {
		t.Errorf("scale bounds = [%g, %g]", opts.MinScale, opts.MaxScale)
	}
	if opts.Converter != "chrome" || len(opts.Formats) != 2 {
		t.Errorf("export options = %q %v", opts.Converter, opts.Formats)
	}
	if opts.Theme.Match != "#e67e22" {
		t.Errorf("theme not carried into options: %+v", opts.Theme)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\nwidht = 3"},
		{"bad colour", "[theme]\nmatch = \"red\""},
		{"inverted scale", "[layout]\nmin_scale_ratio = 2\nmax_scale_ratio = 1"},
		{"zero scale", "[layout]\nmin_scale_ratio = 0"},
		{"bad viz", "[layout]\nviz_type = \"tower\""},
		{"bad converter", "[export]\nconverter = \"inkscape\""},
		{"bad quality", "[export]\njpeg_quality = 0"},
		{"bad format", "[export]\nformats = [\"gif\"]"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"mongo without db", "[cache]\nbackend = \"mongo\"\nmongo_uri = \"mongodb://x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depviz.toml")
		if err := os.WriteFile(path, []byte("[layout]\nheight = 300\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Layout.Height != 300 {
			t.Errorf("Height = %g, want 300", cfg.Layout.Height)
		}
	})

	t.Run("explicit missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("xdg default", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load without file: %v", err)
		}
		if cfg.Layout.Width != Default().Layout.Width {
			t.Error("missing default file should give defaults")
		}

		if err := os.MkdirAll(filepath.Join(dir, "depviz"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "depviz", "config.toml"), []byte("[layout]\nwidth = 640\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err = Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Layout.Width != 640 {
			t.Errorf("Width = %g, want 640", cfg.Layout.Width)
		}
	})
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "depviz") {
		t.Errorf("DefaultCacheDir() = %s", dir)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(none): %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend gave %T", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(file): %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("file backend gave %T", c)
	}
	if fc.Dir() != cfg.Cache.Dir {
		t.Errorf("Dir() = %s, want %s", fc.Dir(), cfg.Cache.Dir)
	}
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	plain := cfg.Keyer().ArtifactKey("h", cache.ArtifactKeyOpts{Format: "svg"})

	cfg.Cache.Prefix = "staging:"
	scoped := cfg.Keyer().ArtifactKey("h", cache.ArtifactKeyOpts{Format: "svg"})
	if scoped != "staging:"+plain {
		t.Errorf("scoped key = %s, want prefix on %s", scoped, plain)
	}
}
