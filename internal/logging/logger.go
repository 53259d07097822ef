// Package logging provides the leveled diagnostic logger shared by the
// visionkit tools. Output goes to stderr: stdout is reserved for the single
// JSON result line each tool emits.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled diagnostics. The zero value is not usable; construct
// with New or Discard.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a logger writing to stderr at the given level.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter returns a logger writing to w at the given level.
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{
		level: parseLevel(level),
		out:   log.New(w, "", log.Ldate|log.Ltime),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{
		level: LevelError,
		out:   log.New(io.Discard, "", 0),
	}
}

func (l *Logger) Debugf(format string, v ...any) {
	if l.level > LevelDebug {
		return
	}
	l.out.Printf("DEBUG: "+format, v...)
}

func (l *Logger) Infof(format string, v ...any) {
	if l.level > LevelInfo {
		return
	}
	l.out.Printf("INFO: "+format, v...)
}

func (l *Logger) Errorf(format string, v ...any) {
	l.out.Printf("ERROR: "+format, v...)
}
