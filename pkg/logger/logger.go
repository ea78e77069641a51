package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"comicsreader/pkg/env"
	"comicsreader/pkg/paths"
)

var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	history     []string
	historyMu   sync.RWMutex
	maxHistory  = 500
	logFile     *os.File
	logFileMu   sync.Mutex
	logLocation *time.Location
	locationMu  sync.RWMutex
)

const timeLayout = "2006-01-02T15:04:05.000-07:00"

// ParseLevel maps a LOG_LEVEL style string to a slog level. Unknown values fall back to INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global logger writing to stderr.
func Init(levelStr string) {
	InitWithWriter(levelStr, os.Stderr)
}

// InitWithWriter initializes the global logger writing to w. Tests use it to capture output.
func InitWithWriter(levelStr string, w io.Writer) {
	loc := loadLocation(env.TZ())

	locationMu.Lock()
	logLocation = loc
	locationMu.Unlock()

	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().In(loc).Format(timeLayout))
			}
			return a
		},
	}

	Log = slog.New(&historyHandler{Handler: slog.NewTextHandler(w, opts)})
	slog.SetDefault(Log)
}

// EnableFile appends every log line to comicsreader-YYYY-MM-DD.log in the data directory.
func EnableFile() error {
	dataDir := paths.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("comicsreader-%s.log", time.Now().In(location()).Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dataDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logFileMu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logFileMu.Unlock()
	return nil
}

func loadLocation(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

func location() *time.Location {
	locationMu.RLock()
	defer locationMu.RUnlock()
	if logLocation == nil {
		return time.Local
	}
	return logLocation
}

// historyHandler keeps a bounded copy of formatted records and mirrors them to the log file.
type historyHandler struct {
	slog.Handler
}

func (h *historyHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := fmt.Sprintf("time=%s level=%s msg=%q", r.Time.In(location()).Format(timeLayout), r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	historyMu.Lock()
	if len(history) >= maxHistory {
		history = history[1:]
	}
	history = append(history, msg)
	historyMu.Unlock()

	err := h.Handler.Handle(ctx, r)

	logFileMu.Lock()
	if logFile != nil {
		fmt.Fprintln(logFile, msg)
	}
	logFileMu.Unlock()

	return err
}

func (h *historyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &historyHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *historyHandler) WithGroup(name string) slog.Handler {
	return &historyHandler{Handler: h.Handler.WithGroup(name)}
}

// GetHistory returns the current log history
func GetHistory() []string {
	historyMu.RLock()
	defer historyMu.RUnlock()
	cp := make([]string, len(history))
	copy(cp, history)
	return cp
}

// Close closes the log file if one is open
func Close() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Helper functions for easy access
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
