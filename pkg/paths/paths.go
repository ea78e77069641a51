package paths

import (
	"os"
)

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "COMICS_DATA_DIR"

// GetDataDir returns the data directory path
// COMICS_DATA_DIR wins when set. Inside Docker (/.dockerenv exists) it is /app/data,
// otherwise the current directory (.)
func GetDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/data"
	}
	return "."
}
