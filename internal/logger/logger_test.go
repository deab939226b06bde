package logger

import (
	"bytes"
	"os"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	// Reset state after test
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("resolved %s", "yesterday")

	if got := buf.String(); got != "[DEBUG] resolved yesterday\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden message")

	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose disabled, got %q", buf.String())
	}
}

func TestSection_WarnAndInfo(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Tier Escalation")
	Info("tier %d sufficient", 1)
	Warn("embedding provider unreachable")

	out := buf.String()
	want := "\n=== Tier Escalation ===\n[INFO] tier 1 sufficient\n[WARN] embedding provider unreachable\n"
	if out != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", out, want)
	}
}
