// Package config loads depviz settings from a TOML file.
//
// Every value has a default, so a missing file is not an error unless its
// path was given explicitly. The file is looked up at
// $XDG_CONFIG_HOME/depviz/config.toml (or the platform config directory).
//
// Example:
//
//	[layout]
//	width = 1200
//	height = 500
//	min_scale_ratio = 0.5
//	max_scale_ratio = 2.0
//
//	[theme]
//	match = "#e67e22"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/depviz/pkg/cache"
	"github.com/matzehuels/depviz/pkg/errors"
	"github.com/matzehuels/depviz/pkg/pipeline"
	"github.com/matzehuels/depviz/pkg/render"
	"github.com/matzehuels/depviz/pkg/render/dependency/sink"
)

const appName = "depviz"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Theme  ThemeConfig  `toml:"theme"`
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds viewport and scaling settings.
type LayoutConfig struct {
	VizType       string  `toml:"viz_type"`
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	MinScaleRatio float64 `toml:"min_scale_ratio"`
	MaxScaleRatio float64 `toml:"max_scale_ratio"`
	Shorten       bool    `toml:"shorten"`
}

// ThemeConfig holds SVG colours as hex strings and the font settings.
type ThemeConfig struct {
	Path       string `toml:"path"`
	Match      string `toml:"match"`
	Selected   string `toml:"selected"`
	Token      string `toml:"token"`
	FontFamily string `toml:"font_family"`
	EmbedFont  bool   `toml:"embed_font"`
}

// ExportConfig holds image conversion settings.
type ExportConfig struct {
	Converter   string   `toml:"converter"`
	Scale       float64  `toml:"scale"`
	JPEGQuality int      `toml:"jpeg_quality"`
	Formats     []string `toml:"formats"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	Prefix          string        `toml:"prefix"`
	RedisURL        string        `toml:"redis_url"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
	ConnectTimeout  time.Duration `toml:"connect_timeout"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			VizType:       pipeline.DefaultVizType,
			Width:         pipeline.DefaultWidth,
			Height:        pipeline.DefaultHeight,
			MinScaleRatio: pipeline.DefaultMinScale,
			MaxScaleRatio: pipeline.DefaultMaxScale,
		},
		Theme: ThemeConfig{
			Path:     sink.DefaultTheme.Path,
			Match:    sink.DefaultTheme.Match,
			Selected: sink.DefaultTheme.Selected,
			Token:    sink.DefaultTheme.Token,
		},
		Export: ExportConfig{
			Converter:   pipeline.DefaultConverter,
			Scale:       pipeline.DefaultPNGScale,
			JPEGQuality: render.DefaultJPEGQuality,
			Formats:     []string{pipeline.FormatSVG},
		},
		Cache: CacheConfig{
			Backend:        BackendFile,
			ConnectTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 45 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/depviz/config.toml, falling back to
// the platform user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/depviz, falling back to
// ~/.cache/depviz.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration at path on top of the defaults. With an
// empty path the default location is tried and a missing file yields the
// defaults. Unknown keys are rejected.
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

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err := checkDecoded(md, err, path); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML text on top of the defaults and validates it.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err := checkDecoded(md, err, "config"); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func checkDecoded(md toml.MetaData, err error, src string) error {
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", src)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", src, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks ranges, names and colours, and normalizes colours to
// lowercase #rrggbb.
func (c *Config) Validate() error {
	if err := pipeline.ValidateVizType(c.Layout.VizType); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout] viz_type")
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[layout] width and height must be positive")
	}
	if c.Layout.MinScaleRatio <= 0 || c.Layout.MinScaleRatio > c.Layout.MaxScaleRatio {
		return errors.New(errors.ErrCodeInvalidConfig,
			"[layout] need 0 < min_scale_ratio <= max_scale_ratio, got %g and %g",
			c.Layout.MinScaleRatio, c.Layout.MaxScaleRatio)
	}

	for _, field := range []struct {
		name  string
		value *string
	}{
		{"path", &c.Theme.Path},
		{"match", &c.Theme.Match},
		{"selected", &c.Theme.Selected},
		{"token", &c.Theme.Token},
	} {
		col, err := colorful.Hex(*field.value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[theme] %s: %q is not a hex colour", field.name, *field.value)
		}
		*field.value = col.Hex()
	}

	switch c.Export.Converter {
	case "rsvg", "chrome":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[export] unknown converter %q (valid: rsvg, chrome)", c.Export.Converter)
	}
	if c.Export.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[export] scale must be positive")
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "[export] jpeg_quality must be 1-100")
	}
	if err := pipeline.ValidateFormats(c.Export.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[export] formats")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] redis backend needs redis_url")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] mongo backend needs mongo_uri and mongo_database")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q (valid: none, file, redis, mongo)", c.Cache.Backend)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] max_body_bytes must be positive")
	}
	return nil
}

// SinkTheme returns the SVG theme.
func (c *Config) SinkTheme() sink.Theme {
	return sink.Theme{
		Path:     c.Theme.Path,
		Match:    c.Theme.Match,
		Selected: c.Theme.Selected,
		Token:    c.Theme.Token,
	}
}

// Options returns pipeline options seeded from the configuration.
// Callers override individual fields from flags or query parameters.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		VizType:     c.Layout.VizType,
		Width:       c.Layout.Width,
		Height:      c.Layout.Height,
		MinScale:    c.Layout.MinScaleRatio,
		MaxScale:    c.Layout.MaxScaleRatio,
		Shorten:     c.Layout.Shorten,
		Formats:     append([]string(nil), c.Export.Formats...),
		Theme:       c.SinkTheme(),
		FontFamily:  c.Theme.FontFamily,
		EmbedFont:   c.Theme.EmbedFont,
		Converter:   c.Export.Converter,
		Scale:       c.Export.Scale,
		JPEGQuality: c.Export.JPEGQuality,
	}
}

// OpenCache opens the configured cache backend. A file cache without a
// directory uses DefaultCacheDir.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Cache
	switch cc.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendFile, "":
		dir := cc.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}

	if cc.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cc.ConnectTimeout)
		defer cancel()
	}
	switch cc.Backend {
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cc.MongoURI, cc.MongoDatabase, cc.MongoCollection)
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cc.Backend)
	}
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}
