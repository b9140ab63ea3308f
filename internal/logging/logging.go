// Package logging exposes the leveled logger used by the converter, fetchers
// and command line front ends. The default implementation is backed by
// github.com/goliatone/go-logger; a no-op logger is used when none is wired.
package logging

import "context"

// Logger is the leveled logging contract used throughout the module.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger attaches persistent structured fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// WithFields returns logger with fields attached when it supports them, and
// logger unchanged otherwise.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil {
		return NoOp()
	}
	if fl, ok := logger.(FieldsLogger); ok && len(fields) > 0 {
		return fl.WithFields(fields)
	}
	return logger
}

// NoOp returns a logger that discards everything.
func NoOp() Logger {
	return noop{}
}

type noop struct{}

func (noop) Trace(string, ...any)                 {}
func (noop) Debug(string, ...any)                 {}
func (noop) Info(string, ...any)                  {}
func (noop) Warn(string, ...any)                  {}
func (noop) Error(string, ...any)                 {}
func (noop) Fatal(string, ...any)                 {}
func (n noop) WithContext(context.Context) Logger { return n }
func (n noop) WithFields(map[string]any) Logger   { return n }
