package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	New(&buf).Info("ready")

	if out := buf.String(); !strings.Contains(out, "ready") {
		t.Errorf("log output = %q, want it to contain the message", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer

	With(New(&buf), "component", "db").Info("migrations applied")

	out := buf.String()
	if !strings.Contains(out, "component=db") {
		t.Errorf("log output = %q, missing attached key-value pair", out)
	}
	if !strings.Contains(out, "migrations applied") {
		t.Errorf("log output = %q, missing the message", out)
	}
}
