// Package rlog provides the leveled, structured logger used throughout
// routelens (spec §6): debug output is emitted only when a caller opts in,
// and every message carries structured key/value attributes instead of
// being built as an ad hoc formatted string. The Level/HandlerType shape
// mirrors rivaas.dev/logging's design; the console handler is new, built on
// fatih/color and mattn/go-isatty the way the teacher's CLI commands format
// their own terminal output.
package rlog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a logging verbosity threshold.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// HandlerType selects the output format.
type HandlerType string

const (
	// ConsoleHandler prints human-readable, color-coded lines to a TTY.
	ConsoleHandler HandlerType = "console"
	// JSONHandler prints one JSON object per line.
	JSONHandler HandlerType = "json"
	// TextHandler prints slog's default key=value text form.
	TextHandler HandlerType = "text"
)

// Logger is the structured logger every package accepts instead of calling
// the standard library's log package directly.
type Logger struct {
	s *slog.Logger
}

// New builds a Logger writing to w at the given level and format.
func New(level Level, handler HandlerType, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch handler {
	case JSONHandler:
		h = slog.NewJSONHandler(w, opts)
	case TextHandler:
		h = slog.NewTextHandler(w, opts)
	default:
		h = newConsoleHandler(w, opts)
	}
	return &Logger{s: slog.New(h)}
}

// Discard returns a Logger that drops everything — the default when a
// caller (e.g. a library consumer of pkg/extractor) supplies none.
func Discard() *Logger {
	return &Logger{s: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.Log(context.Background(), level, msg, args...)
}

// With returns a Logger that always includes the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.s == nil {
		return Discard()
	}
	return &Logger{s: l.s.With(args...)}
}

// consoleHandler renders level-colored, human-readable lines; colors are
// disabled automatically when w is not a terminal (spec §6 "suppressible,
// non-intrusive default output").
type consoleHandler struct {
	w     io.Writer
	opts  *slog.HandlerOptions
	color bool
	attrs []slog.Attr
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &consoleHandler{w: w, opts: opts, color: useColor}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts != nil && h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	label, c := levelLabel(r.Level)
	if h.color {
		label = c.Sprint(label)
	}
	line := label + " " + r.Message
	r.Attrs(func(a slog.Attr) bool {
		line += " " + a.Key + "=" + a.Value.String()
		return true
	})
	for _, a := range h.attrs {
		line += " " + a.Key + "=" + a.Value.String()
	}
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(string) slog.Handler {
	return h
}

func levelLabel(level slog.Level) (string, *color.Color) {
	switch {
	case level >= slog.LevelError:
		return "ERROR", color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		return "WARN", color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		return "INFO", color.New(color.FgCyan)
	default:
		return "DEBUG", color.New(color.FgMagenta)
	}
}
