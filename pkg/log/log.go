// Package log wraps the standard library logger with named, leveled loggers.
//
// Every subsystem asks for its own logger once and keeps it:
//
//	l := log.ForService("storage")
//	l.Infof("opened %s", path)
//	l.Debugf("pragma %q applied", p) // only printed when debug is on
//
// Debug output can be enabled for the whole process with SetGlobalDebug or
// for a single service with EnableDebugFor. Lines look like:
//
//	2025/01/02 15:04:05.000000 INFO [storage>] opened /tmp/ssworld.db
//
// The package name shadows the standard library "log"; alias one of them
// when both are needed.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level is the severity tag written in front of each line.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger is a named logger. Use ForService to obtain one.
type Logger struct {
	name string
	std  *log.Logger
}

type sink struct {
	w io.Writer
}

var (
	globalDebug  atomic.Bool
	serviceDebug sync.Map // service name -> *atomic.Bool
	loggers      sync.Map // service name -> *Logger
	output       atomic.Value
)

func init() {
	output.Store(sink{w: os.Stderr})
}

// ForService returns the memoized logger for name. An empty name maps to
// "ssworld".
func ForService(name string) *Logger {
	if name == "" {
		name = "ssworld"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	w := output.Load().(sink).w
	l := &Logger{name: name, std: log.New(w, "", log.LstdFlags|log.Lmicroseconds)}
	actual, _ := loggers.LoadOrStore(name, l)
	return actual.(*Logger)
}

// SetOutput redirects every logger, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	output.Store(sink{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// SetGlobalDebug toggles debug output for all services.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// EnableDebugFor turns on debug output for a single service.
func EnableDebugFor(name string) {
	setServiceDebug(name, true)
}

// DisableDebugFor turns off a per-service debug override.
func DisableDebugFor(name string) {
	setServiceDebug(name, false)
}

func setServiceDebug(name string, enabled bool) {
	if name == "" {
		return
	}
	v, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	v.(*atomic.Bool).Store(enabled)
}

// DebugEnabledFor reports whether debug lines for name are printed.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if v, ok := serviceDebug.Load(name); ok {
		return v.(*atomic.Bool).Load()
	}
	return false
}

// Name returns the service name of the logger.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) write(level Level, format string, args ...any) {
	l.std.Printf("%s [%s>] %s", level, l.name, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, format, args...)
}

// Debugf prints only when debug is enabled globally or for this service.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.write(LevelDebug, format, args...)
}
