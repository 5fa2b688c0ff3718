package monitoring

import (
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}

func TestCaptureLogs(t *testing.T) {
	capture, restore := CaptureLogs()
	Logf("pivot %d of %d", 3, 10)
	Logf("[minball] done")
	restore()

	lines := capture.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "pivot 3 of 10" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[minball]") {
		t.Errorf("unexpected second line %q", lines[1])
	}

	// after restore, new lines go elsewhere
	Logf("not captured")
	if got := len(capture.Lines()); got != 2 {
		t.Errorf("capture grew after restore: %d lines", got)
	}
}
