package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(false, &buf)

	Debug("hidden %s", "message")
	if buf.Len() != 0 {
		t.Errorf("Expected no debug output, got %q", buf.String())
	}

	Info("visible %s", "message")
	if !strings.Contains(buf.String(), "visible message") {
		t.Errorf("Expected info output, got %q", buf.String())
	}
}

func TestDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(true, &buf)

	if !IsDebugEnabled() {
		t.Error("Expected debug to be enabled")
	}

	Debug("point %d polled", 10)
	if !strings.Contains(buf.String(), "DEBUG: point 10 polled") {
		t.Errorf("Expected debug output, got %q", buf.String())
	}
}

func TestErrorPrefix(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(false, &buf)

	Error("request failed: %v", "timeout")
	if !strings.Contains(buf.String(), "ERROR: request failed: timeout") {
		t.Errorf("Expected error output, got %q", buf.String())
	}
}
