package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"comicsreader/pkg/env"
	"comicsreader/pkg/logger"
	"comicsreader/pkg/paths"
)

// Defaults
const (
	DefaultLogLevel     = "INFO"
	DefaultMaxEntrySize = 256 << 20
	DefaultCacheEntries = 64
	FileName            = "config.json"
)

// DefaultImageExtensions are the page formats an album keeps.
var DefaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

// Config holds application configuration
type Config struct {
	LogLevel  string `json:"log_level"`
	LogToFile bool   `json:"log_to_file"`

	// MaxEntrySize caps the buffer allocated for one extracted entry, in bytes.
	MaxEntrySize int64 `json:"max_entry_size"`

	// CacheEntries is the number of archive listings kept by the album library.
	CacheEntries int `json:"cache_entries"`

	ImageExtensions []string `json:"image_extensions"`

	// Internal - where was this config loaded from?
	LoadedPath string `json:"-"`
	fs         afero.Fs
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		MaxEntrySize:    DefaultMaxEntrySize,
		CacheEntries:    DefaultCacheEntries,
		ImageExtensions: slices.Clone(DefaultImageExtensions),
	}
}

// Load is intended for startup only. It loads configuration from config.json in the
// data directory and applies environment variable overrides once.
// Priority: Environment variables (if not empty) > config.json > defaults
func Load() (*Config, error) {
	return LoadFrom(afero.NewOsFs(), paths.GetDataDir())
}

// LoadFrom loads dir/config.json from fsys. A missing file is not an error.
func LoadFrom(fsys afero.Fs, dir string) (*Config, error) {
	configPath := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.LoadedPath = configPath
	cfg.fs = fsys

	if err := cfg.LoadFile(configPath); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No config found, using defaults", "path", configPath)
		} else {
			logger.Warn("Failed to load config, using defaults", "path", configPath, "err", err)
			cfg = Default()
			cfg.LoadedPath = configPath
			cfg.fs = fsys
		}
	} else {
		logger.Debug("Loaded configuration", "path", configPath)
	}

	overrides, keys := env.ReadConfigOverrides()
	ApplyEnvOverrides(cfg, overrides, keys)
	cfg.normalize()

	return cfg, nil
}

// LoadFile overrides config with values from a JSON file
func (c *Config) LoadFile(path string) error {
	file, err := c.filesystem().Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(c); err != nil {
		return err
	}
	return nil
}

// Save saves the current configuration to the file it was loaded from
func (c *Config) Save() error {
	path := c.LoadedPath
	if path == "" {
		path = FileName
	}
	return c.SaveFile(path)
}

// SaveFile saves the current configuration to a JSON file
func (c *Config) SaveFile(path string) error {
	fsys := c.filesystem()
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := fsys.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

func (c *Config) filesystem() afero.Fs {
	if c.fs == nil {
		return afero.NewOsFs()
	}
	return c.fs
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxEntrySize <= 0 {
		c.MaxEntrySize = DefaultMaxEntrySize
	}
	if c.CacheEntries <= 0 {
		c.CacheEntries = DefaultCacheEntries
	}
	if len(c.ImageExtensions) == 0 {
		c.ImageExtensions = slices.Clone(DefaultImageExtensions)
	}
}

// ApplyEnvOverrides applies environment-derived overrides to cfg (used at startup only).
// Only fields present in keys are applied, so env vars override file values per setting.
func ApplyEnvOverrides(cfg *Config, o env.ConfigOverrides, keys []string) {
	if slices.Contains(keys, env.KeyLogLevel) {
		cfg.LogLevel = o.LogLevel
	}
	if slices.Contains(keys, env.KeyLogToFile) && o.LogToFile != nil {
		cfg.LogToFile = *o.LogToFile
	}
	if slices.Contains(keys, env.KeyMaxEntrySize) && o.MaxEntrySize != nil {
		cfg.MaxEntrySize = *o.MaxEntrySize
	}
	if slices.Contains(keys, env.KeyCacheEntries) && o.CacheEntries != nil {
		cfg.CacheEntries = *o.CacheEntries
	}
	if slices.Contains(keys, env.KeyImageExtensions) {
		cfg.ImageExtensions = slices.Clone(o.ImageExtensions)
	}
}
