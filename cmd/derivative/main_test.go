package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRunDumpRejectsUnknownFormat(t *testing.T) {
	old := format
	defer func() { format = old }()

	format = "xml"
	err := runDump(dumpCmd, nil)
	if err == nil || !strings.Contains(err.Error(), `unknown format "xml"`) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"check", "dump"} {
		cmd, _, err := RootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected %s command, got %v (%v)", name, cmd, err)
		}
	}
}

func TestNewLoggerLevel(t *testing.T) {
	old := verbose
	defer func() { verbose = old }()

	var buf bytes.Buffer
	verbose = false
	newLogger(&buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got %q", buf.String())
	}

	verbose = true
	newLogger(&buf).Debug("shown", slog.String("k", "v"))
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}
