// Package logging provides categorized file-based logging for kushl.
// Logs are written under the state directory with one rotated file per
// category; when debug mode is off the loggers are silent no-ops so the
// TUI never pays for formatting.
package logging

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Category selects which log file a message lands in.
type Category string

const (
	CategoryBoot    Category = "boot"    // startup and shutdown
	CategorySession Category = "session" // session list, selection, delete
	CategoryAPI     Category = "api"     // HTTP calls to the chat server
	CategoryVoice   Category = "voice"   // dictation state machine
	CategoryUI      Category = "ui"      // dashboard events
)

// Log levels, lowest first.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Options controls where logs go and how verbose they are.
type Options struct {
	Dir       string // directory for log files; empty disables logging
	Debug     bool   // master switch; false means every logger is a no-op
	Level     string // debug/info/warn/error, defaults to info
	MaxSizeMB int    // per-file rotation threshold, defaults to 10
}

// Logger writes to one category's rotated file.
type Logger struct {
	category Category
	logger   *log.Logger
	sink     *lumberjack.Logger
}

var (
	mu      sync.RWMutex
	loggers = make(map[Category]*Logger)
	opts    Options
	level   = LevelInfo
)

// Initialize configures the logging system. Call once at startup; calling
// with Debug=false (or an empty Dir) leaves every logger a silent no-op.
func Initialize(o Options) {
	mu.Lock()
	defer mu.Unlock()
	opts = o
	switch o.Level {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	default:
		level = LevelInfo
	}
	loggers = make(map[Category]*Logger)
}

// Get returns (or creates) the logger for a category. Disabled categories
// get a no-op logger, so call sites never need to guard.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	enabled := opts.Debug && opts.Dir != ""
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category}
	if enabled {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		l.sink = &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, string(category)+".log"),
			MaxSize:    maxSize,
			MaxBackups: 3,
		}
		l.logger = log.New(l.sink, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	}
	loggers[category] = l
	return l
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) { l.printf(LevelDebug, "DEBUG", format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.printf(LevelInfo, "INFO", format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.printf(LevelWarn, "WARN", format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.printf(LevelError, "ERROR", format, args...) }

func (l *Logger) printf(lvl int, tag, format string, args ...any) {
	if l.logger == nil {
		return
	}
	mu.RLock()
	min := level
	mu.RUnlock()
	if lvl < min {
		return
	}
	l.logger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

// CloseAll flushes and closes every open log file. Call at shutdown.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		if l.sink != nil {
			_ = l.sink.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience helpers mirroring the categories above. All are no-ops when
// logging is disabled.

// Boot logs to the boot category.
func Boot(format string, args ...any) { Get(CategoryBoot).Info(format, args...) }

// Session logs to the session category.
func Session(format string, args ...any) { Get(CategorySession).Info(format, args...) }

// SessionDebug logs debug to the session category.
func SessionDebug(format string, args ...any) { Get(CategorySession).Debug(format, args...) }

// API logs to the api category.
func API(format string, args ...any) { Get(CategoryAPI).Info(format, args...) }

// APIDebug logs debug to the api category.
func APIDebug(format string, args ...any) { Get(CategoryAPI).Debug(format, args...) }

// Voice logs to the voice category.
func Voice(format string, args ...any) { Get(CategoryVoice).Info(format, args...) }

// UI logs to the ui category.
func UI(format string, args ...any) { Get(CategoryUI).Info(format, args...) }
