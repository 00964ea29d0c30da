package rlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, JSONHandler, &buf)
	log.Info("extraction complete", "routes", 3)

	out := buf.String()
	if !strings.Contains(out, `"msg":"extraction complete"`) {
		t.Errorf("expected JSON msg field, got: %s", out)
	}
	if !strings.Contains(out, `"routes":3`) {
		t.Errorf("expected structured attribute, got: %s", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, TextHandler, &buf)
	log.Debug("should be filtered out")
	if buf.Len() != 0 {
		t.Errorf("expected debug line to be filtered at info level, got: %s", buf.String())
	}

	log.Info("should appear")
	if buf.Len() == 0 {
		t.Error("expected info line to be emitted")
	}
}

func TestNew_ConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelDebug, ConsoleHandler, &buf)
	log.Warn("disk nearly full", "percent", 91)

	out := buf.String()
	if !strings.Contains(out, "disk nearly full") {
		t.Errorf("expected message in console output, got: %s", out)
	}
	if !strings.Contains(out, "percent=91") {
		t.Errorf("expected key=value attribute, got: %s", out)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	// Must never panic regardless of level or nil receiver usage elsewhere.
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Info("should not panic on a nil logger")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, JSONHandler, &buf)
	scoped := log.With("component", "extractor")
	scoped.Info("done")

	if !strings.Contains(buf.String(), `"component":"extractor"`) {
		t.Errorf("expected bound attribute in output, got: %s", buf.String())
	}
}
