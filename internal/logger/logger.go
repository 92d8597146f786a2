package logger

import (
	"fmt"
	"log/slog"
)

// Logger is a lightweight wrapper around slog that carries the scope,
// file, and function context as structured attributes. Loggers are
// values; Function and File return derived copies.
type Logger struct {
	scope    string
	file     string
	function string
}

func New(scope string) Logger {
	return Logger{scope: scope}
}

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) attrs(args ...any) []any {
	out := make([]any, 0, len(args)+6)
	if l.scope != "" {
		out = append(out, "scope", l.scope)
	}
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Info(msg string, args ...any) {
	slog.Info(msg, l.attrs(args...)...)
}

func (l Logger) Debug(msg string, args ...any) {
	slog.Debug(msg, l.attrs(args...)...)
}

func (l Logger) Warn(msg string, args ...any) {
	slog.Warn(msg, l.attrs(args...)...)
}

// Er logs an error without returning one.
func (l Logger) Er(msg string, err error, args ...any) {
	slog.Error(msg, l.attrs(append([]any{"error", err}, args...)...)...)
}

// ErMsg logs an error message without an underlying error value.
func (l Logger) ErMsg(msg string, args ...any) {
	slog.Error(msg, l.attrs(args...)...)
}

// Err logs and returns an error wrapping the cause, suitable for
// `return log.Err(...)` at call sites.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs and returns a new error with no underlying cause.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return fmt.Errorf("%s", msg)
}

// ErrMsg is an alias of Error kept for call-site readability.
func (l Logger) ErrMsg(msg string, args ...any) error {
	return l.Error(msg, args...)
}
