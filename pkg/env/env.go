// Package env consolidates all environment variable reading for the application.
// Config overrides are applied only at startup (see config.Load).
package env

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names (single source of truth)
const (
	LOGLevel        = "LOG_LEVEL"
	LOGToFile       = "LOG_TO_FILE"
	MaxEntrySize    = "COMICS_MAX_ENTRY_SIZE"
	CacheEntries    = "COMICS_CACHE_ENTRIES"
	ImageExtensions = "COMICS_IMAGE_EXTENSIONS"
	TZVar           = "TZ"
)

// Config JSON keys reported by ReadConfigOverrides
const (
	KeyLogLevel        = "log_level"
	KeyLogToFile       = "log_to_file"
	KeyMaxEntrySize    = "max_entry_size"
	KeyCacheEntries    = "cache_entries"
	KeyImageExtensions = "image_extensions"
)

// TZ returns the TZ environment variable (e.g. for logger timezone).
func TZ() string {
	return os.Getenv(TZVar)
}

// LogLevel returns LOG_LEVEL with default "INFO" (for early logger init before config).
func LogLevel() string {
	return getEnv(LOGLevel, "INFO")
}

// ConfigOverrides holds all config values that can be set via environment variables.
// Pointer fields distinguish "unset" from a zero value.
type ConfigOverrides struct {
	LogLevel        string
	LogToFile       *bool
	MaxEntrySize    *int64
	CacheEntries    *int
	ImageExtensions []string
}

// ReadConfigOverrides reads all relevant environment variables once and returns
// overrides to apply to config plus the list of config JSON keys that were set.
func ReadConfigOverrides() (ConfigOverrides, []string) {
	var o ConfigOverrides
	var keys []string

	if v := os.Getenv(LOGLevel); v != "" {
		o.LogLevel = v
		keys = append(keys, KeyLogLevel)
	}
	if v := os.Getenv(LOGToFile); v != "" {
		b := getEnvBool(LOGToFile, false)
		o.LogToFile = &b
		keys = append(keys, KeyLogToFile)
	}
	if v := os.Getenv(MaxEntrySize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			o.MaxEntrySize = &n
			keys = append(keys, KeyMaxEntrySize)
		}
	}
	if v := os.Getenv(CacheEntries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			o.CacheEntries = &n
			keys = append(keys, KeyCacheEntries)
		}
	}
	if v := os.Getenv(ImageExtensions); v != "" {
		o.ImageExtensions = splitList(v)
		if len(o.ImageExtensions) > 0 {
			keys = append(keys, KeyImageExtensions)
		}
	}

	return o, keys
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(v) == "true" || v == "1"
	}
	return defaultVal
}
