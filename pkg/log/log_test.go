package log

import (
	"bytes"
	"strings"
	"testing"
)

func captureLogger(t *testing.T, name string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	return ForService(name), buf
}

func TestInfoCarriesLevelAndPrefix(t *testing.T) {
	SetGlobalDebug(false)
	l, buf := captureLogger(t, "journal_info")

	l.Infof("saved %d records", 3)
	out := buf.String()

	if !strings.Contains(out, "INFO [journal_info>] saved 3 records") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestForServiceIsMemoized(t *testing.T) {
	if ForService("same") != ForService("same") {
		t.Fatal("expected the same logger instance for the same name")
	}
	if ForService("").Name() != "ssworld" {
		t.Fatalf("expected default name ssworld, got %q", ForService("").Name())
	}
}

func TestDebugPerService(t *testing.T) {
	SetGlobalDebug(false)
	const name = "journal_debug_service"
	DisableDebugFor(name)
	l, buf := captureLogger(t, name)

	l.Debugf("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug line printed while debug disabled")
	}

	EnableDebugFor(name)
	defer DisableDebugFor(name)
	l.Debugf("shown")
	if !strings.Contains(buf.String(), "DEBUG [journal_debug_service>] shown") {
		t.Fatalf("expected debug line after enabling, got %q", buf.String())
	}
}

func TestDebugGlobal(t *testing.T) {
	SetGlobalDebug(false)
	const name = "journal_debug_global"
	l, buf := captureLogger(t, name)

	SetGlobalDebug(true)
	defer SetGlobalDebug(false)

	l.Debugf("everyone")
	if !strings.Contains(buf.String(), "everyone") {
		t.Fatalf("expected debug line with global debug, got %q", buf.String())
	}
}

func TestSetOutputUpdatesExistingLoggers(t *testing.T) {
	l := ForService("journal_existing")
	buf := &bytes.Buffer{}
	SetOutput(buf)

	l.Warnf("disk almost full")
	if !strings.Contains(buf.String(), "WARN [journal_existing>] disk almost full") {
		t.Fatalf("existing logger did not follow SetOutput: %q", buf.String())
	}
}
