package shared

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected UUID shape, got %s", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"key": "value"}

	t.Run("Compact", func(t *testing.T) {
		out, err := MarshalJSON(payload, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		out, err := MarshalJSON(payload, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Error("expected indented output")
		}
	})
}

func TestSentinelErrors(t *testing.T) {
	wrapped := errors.Join(ErrNotAuthenticated)
	if !errors.Is(wrapped, ErrNotAuthenticated) {
		t.Error("expected wrapped sentinel to match")
	}

	if ErrUnauthorized.Error() == "" {
		t.Error("expected a message on ErrUnauthorized")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := t.TempDir() + "/nested/evently.log"
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}

	logger.Info("hello")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file should exist: %v", err)
	}
}
