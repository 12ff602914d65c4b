// Package logging provides categorized file-based logging for strategos.
// Logs are written to <state dir>/logs/ with a separate file per category.
// Logging is gated by debug_mode in the config; when false, every call is a
// silent no-op so production runs write nothing.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and wiring
	CategorySession   Category = "session"   // State machine, stage transitions
	CategoryResearch  Category = "research"  // Research pipeline phases
	CategoryBlueprint Category = "blueprint" // Blueprint generation, polling
	CategoryExecution Category = "execution" // Content piece generation
	CategoryStore     Category = "store"     // SQLite repository and pointers
	CategoryAPI       Category = "api"       // Generation collaborator calls
	CategoryExport    Category = "export"    // Export rendering
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Settings controls the logging subsystem. Mirrors config.LoggingConfig to
// avoid a circular import.
type Settings struct {
	DebugMode  bool
	Level      string
	Categories map[string]bool
}

// Logger writes to one category's log file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  Settings
	settingMu sync.RWMutex
	logLevel  int
)

// Initialize sets up the logging directory and applies settings. Should be
// called once at startup with the state directory path. A disabled debug
// mode makes the whole package a no-op.
func Initialize(stateDir string, s Settings) error {
	settingMu.Lock()
	settings = s
	logLevel = parseLevel(s.Level)
	settingMu.Unlock()

	if !s.DebugMode {
		return nil
	}
	if stateDir == "" {
		return fmt.Errorf("state directory required")
	}

	logsDir = filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== strategos logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", s.Level)
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func categoryEnabled(cat Category) bool {
	settingMu.RLock()
	defer settingMu.RUnlock()
	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, exists := settings.Categories[string(cat)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns the logger for a category, creating it on first use. Returns
// a disabled logger when the category (or debug mode) is off.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	l := &Logger{category: category}
	if categoryEnabled(category) && logsDir != "" {
		path := filepath.Join(logsDir, string(category)+".log")
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			l.file = file
			l.logger = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
		}
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] "+format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] "+format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] "+format, args...)
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - quick logging without getting a logger first.
// These are no-ops if the category is disabled.
// =============================================================================

func Boot(format string, args ...interface{})    { Get(CategoryBoot).Info(format, args...) }
func Session(format string, args ...interface{}) { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) {
	Get(CategorySession).Debug(format, args...)
}
func SessionWarn(format string, args ...interface{}) {
	Get(CategorySession).Warn(format, args...)
}
func SessionError(format string, args ...interface{}) {
	Get(CategorySession).Error(format, args...)
}

func Research(format string, args ...interface{}) { Get(CategoryResearch).Info(format, args...) }
func ResearchDebug(format string, args ...interface{}) {
	Get(CategoryResearch).Debug(format, args...)
}
func ResearchError(format string, args ...interface{}) {
	Get(CategoryResearch).Error(format, args...)
}

func Blueprint(format string, args ...interface{}) { Get(CategoryBlueprint).Info(format, args...) }
func BlueprintDebug(format string, args ...interface{}) {
	Get(CategoryBlueprint).Debug(format, args...)
}
func BlueprintError(format string, args ...interface{}) {
	Get(CategoryBlueprint).Error(format, args...)
}

func Execution(format string, args ...interface{}) { Get(CategoryExecution).Info(format, args...) }
func ExecutionError(format string, args ...interface{}) {
	Get(CategoryExecution).Error(format, args...)
}

func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}
func StoreError(format string, args ...interface{}) {
	Get(CategoryStore).Error(format, args...)
}

func API(format string, args ...interface{}) { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}
func APIError(format string, args ...interface{}) {
	Get(CategoryAPI).Error(format, args...)
}

func Export(format string, args ...interface{}) { Get(CategoryExport).Info(format, args...) }

// Timer tracks the duration of an operation for performance logging.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time for the operation.
func (t *Timer) Stop() {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s took %s", t.operation, elapsed)
}
