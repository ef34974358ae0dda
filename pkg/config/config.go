// Package config loads clade.toml configuration files.
//
// Configuration supplies defaults for rendering, caching, the HTTP server,
// and tree storage; command-line flags override any value set here. A
// missing file is not an error: Load falls back to [Default].
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cladeviz/clade/pkg/errors"
)

// DefaultFilename is looked up in the working directory when no explicit
// path is given.
const DefaultFilename = "clade.toml"

// Config is the root configuration document.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// RenderConfig holds layout and rendering defaults.
type RenderConfig struct {
	Width        float64 `toml:"width"`         // frame width hint for nodelink output
	XScale       float64 `toml:"x_scale"`       // horizontal units per branch-length unit
	YScale       float64 `toml:"y_scale"`       // vertical units per leaf row
	MinCollapsed float64 `toml:"min_collapsed"` // minimum extent of collapsed clusters
	Format       string  `toml:"format"`        // default output format
	ShowLengths  bool    `toml:"show_lengths"`  // label nodelink edges with branch lengths
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"` // "file", "redis", or "none"
	Dir     string `toml:"dir"`     // file backend directory
	Addr    string `toml:"addr"`    // redis backend address
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"` // listen address, e.g. ":8080"
}

// StoreConfig holds MongoDB settings for named-tree persistence.
type StoreConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return Config{
		Render: RenderConfig{
			Width:  800,
			Format: "svg",
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     filepath.Join(cacheDir, "clade"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			URI:      "mongodb://localhost:27017",
			Database: "clade",
		},
	}
}

// Load reads the configuration at path, or DefaultFilename when path is
// empty. A missing file yields [Default] without error; a file that fails
// to parse is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFilename
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
