// Package config loads the stackup configuration file.
//
// The configuration is a TOML document with one table per concern:
//
//	[stackup]
//	copper_thickness = 0.035
//	substrate_thickness = 1.5
//	plating_thickness = 0.0174
//
//	[render]
//	scale = 1.0
//	formats = ["svg", "obj"]
//	png_dpmm = 10.0
//	workers = 4
//
//	[colors]
//	soldermask = [0.1, 0.6, 0.3, 0.6]
//
//	[cache]
//	backend = "file"   # "file", "redis" or "none"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "1h"
//
//	[audit]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "stackup"
//
// Every key is optional; [Load] decodes over [Default].
package config

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/errors"
)

const appName = "stackup"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Stackup board.Stackup `toml:"stackup"`
	Render  Render        `toml:"render"`
	Colors  Colors        `toml:"colors"`
	Cache   Cache         `toml:"cache"`
	Server  Server        `toml:"server"`
	Audit   Audit         `toml:"audit"`
}

// Render holds the default render options.
type Render struct {
	Scale   float64  `toml:"scale"`
	Formats []string `toml:"formats"`
	// PNGResolution is the raster resolution in pixels per mm.
	PNGResolution float64 `toml:"png_dpmm"`
	Workers       int     `toml:"workers"`
	Shadow        bool    `toml:"shadow"`
}

// Colors holds one RGBA array per material, components in [0, 1]. A
// three-element array is opaque.
type Colors struct {
	Soldermask []float64 `toml:"soldermask"`
	Silkscreen []float64 `toml:"silkscreen"`
	Finish     []float64 `toml:"finish"`
	Substrate  []float64 `toml:"substrate"`
	Copper     []float64 `toml:"copper"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `toml:"addr"`
	SessionTTL  Duration `toml:"session_ttl"`
	SessionDir  string   `toml:"session_dir"`
	MaxUploadMB int      `toml:"max_upload_mb"`
}

// Audit configures the MongoDB audit log. An empty URI disables it.
type Audit struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
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

func colorSlice(c board.Color) []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

// Default returns the built-in configuration.
func Default() Config {
	dc := board.DefaultColors
	return Config{
		Stackup: board.DefaultStackup,
		Render: Render{
			Scale:         1,
			Formats:       []string{"svg"},
			PNGResolution: 10,
			Workers:       4,
		},
		Colors: Colors{
			Soldermask: colorSlice(dc.Soldermask),
			Silkscreen: colorSlice(dc.Silkscreen),
			Finish:     colorSlice(dc.Finish),
			Substrate:  colorSlice(dc.Substrate),
			Copper:     colorSlice(dc.Copper),
		},
		Cache: Cache{
			Backend:   CacheFile,
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Server: Server{
			Addr:        ":8080",
			SessionTTL:  Duration{time.Hour},
			MaxUploadMB: 32,
		},
		Audit: Audit{
			Database: appName,
		},
	}
}

// DefaultPath returns the configuration file location following the XDG
// convention (~/.config/stackup/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path over [Default] and validates it. An
// empty path loads the default location, where a missing file is not an
// error.
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
			if !explicit {
				return Default(), nil
			}
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode reads a configuration from r over [Default] and validates it.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if err := checkUndecoded(md); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(names, ", "))
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Stackup.Validate(); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.scale must be positive")
	}
	if c.Render.PNGResolution <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.png_dpmm must be positive")
	}
	if c.Render.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.workers cannot be negative")
	}
	if _, err := c.Colors.Scheme(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be %q, %q or %q, got %q",
			CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 || c.Server.SessionTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations cannot be negative")
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_mb must be positive")
	}
	return nil
}

// Scheme converts the color arrays to a color scheme.
func (c Colors) Scheme() (board.ColorScheme, error) {
	var s board.ColorScheme
	for _, f := range []struct {
		name string
		in   []float64
		out  *board.Color
	}{
		{"soldermask", c.Soldermask, &s.Soldermask},
		{"silkscreen", c.Silkscreen, &s.Silkscreen},
		{"finish", c.Finish, &s.Finish},
		{"substrate", c.Substrate, &s.Substrate},
		{"copper", c.Copper, &s.Copper},
	} {
		col, err := board.RGBA(f.in)
		if err != nil {
			return s, errors.Wrap(errors.ErrCodeInvalidInput, err, "colors.%s", f.name)
		}
		*f.out = col
	}
	return s, nil
}
