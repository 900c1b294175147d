package observability

import (
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	f := String("format", "pdf")
	if f.Key() != "format" || f.Value() != "pdf" {
		t.Fatalf("unexpected field: %s=%v", f.Key(), f.Value())
	}
	n := Int("pages", 3)
	if n.Key() != "pages" || n.Value() != 3 {
		t.Fatalf("unexpected field: %s=%v", n.Key(), n.Value())
	}
	err := errors.New("boom")
	e := Error("error", err)
	if e.Key() != "error" || e.Value() != err {
		t.Fatalf("unexpected field: %s=%v", e.Key(), e.Value())
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	var log Logger = NopLogger{}
	log.Debug("debug")
	log.Info("info", String("k", "v"))
	log = log.With(Int("n", 1))
	log.Warn("warn")
	log.Error("error", Error("error", errors.New("boom")))
}

func TestZapLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		log := NewZapLogger(level, "json")
		if log == nil {
			t.Fatalf("NewZapLogger(%q) returned nil", level)
		}
		log.Info("message", String("level", level))
	}
	console := NewZapLogger("info", "console")
	console = console.With(String("component", "test"))
	console.Debug("suppressed at info level")
}
