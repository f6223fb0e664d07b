// Package logging provides session-scoped debug logging for actionspace
// components. Each process run gets a session ID, and all component loggers
// append to the same session log file under ~/.actionspace/logs/. File logging
// keeps diagnostic output (demo-effect failures, executor traces) out of the
// stdout/stderr streams the embedding agent may be reading.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes structured log lines for one component. All levels write
// unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	out       *log.Logger
	path      string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	logDir     string
	logDirOnce sync.Once
	logDirErr  error
)

// SessionID returns the ID shared by every logger in this process, creating
// it on first use.
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func ensureLogDir() error {
	logDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			logDirErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}
		logDir = filepath.Join(home, ".actionspace", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			logDirErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return logDirErr
}

// New creates a logger for the named component, appending to the session log
// file. If the file cannot be opened it returns a logger that writes to
// stderr together with the error, so callers can keep logging regardless.
func New(component string) (*Logger, error) {
	if err := ensureLogDir(); err != nil {
		return fallback(component, err), err
	}

	path := filepath.Join(logDir, fmt.Sprintf("%s.log", SessionID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return fallback(component, err), err
	}

	return &Logger{
		sessionID: SessionID(),
		component: component,
		file:      file,
		out:       log.New(file, "", 0),
		path:      path,
	}, nil
}

func fallback(component string, err error) *Logger {
	out := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	out.Printf("file logging unavailable, using stderr: %v", err)
	return &Logger{
		sessionID: SessionID(),
		component: component,
		out:       out,
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] [%s] %s", ts, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Path returns the log file path, or "" when falling back to stderr.
func (l *Logger) Path() string { return l.path }

// Close closes the underlying file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
