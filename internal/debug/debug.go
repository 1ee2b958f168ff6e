// Package debug provides development logging for yoda.
//
// The TUI owns the terminal, so ad-hoc prints are not an option;
// instead a log file can be tailed from another terminal while the
// app runs.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type sink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

var out sink

// writeLine appends a timestamped line and flushes it so a tail -f
// shows it immediately. Caller must hold the lock.
func (s *sink) writeLine(msg string) {
	if s.file == nil {
		return
	}
	fmt.Fprintf(s.file, "[%s] %s\n", time.Now().Format("15:04:05.000"), msg)
	s.file.Sync()
}

// Enable turns on debug logging to the specified file. Calling it
// again while enabled is a no-op.
func Enable(path string) error {
	out.mu.Lock()
	defer out.mu.Unlock()

	if out.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	out.file = f
	out.path = path

	out.writeLine("=== Yoda Debug Session Started ===")
	out.writeLine("Time: " + time.Now().Format(time.RFC3339))
	out.writeLine("Log file: " + path)
	out.writeLine("================================")
	return nil
}

// Disable turns off debug logging and closes the file.
func Disable() {
	out.mu.Lock()
	defer out.mu.Unlock()

	if out.file != nil {
		out.file.Close()
		out.file = nil
	}
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.file != nil
}

// Log writes a debug message if logging is enabled.
func Log(format string, args ...any) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.writeLine(fmt.Sprintf(format, args...))
}

// LogPath returns the path to the log file.
func LogPath() string {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.path
}

// Event logs a TUI event with component context.
func Event(component, eventType string, details string) {
	Log("[%s] %s: %s", component, eventType, details)
}

// Error logs an error with context.
func Error(component string, err error, context string) {
	Log("[%s] ERROR: %s - %v", component, context, err)
}
