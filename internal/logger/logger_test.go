package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewJSONWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("ingest", zap.Int("accepted", 3))
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	if entry["msg"] != "ingest" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["accepted"] != float64(3) {
		t.Fatalf("unexpected accepted: %v", entry["accepted"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("missing timestamp in %v", entry)
	}
}

func TestNewDefaultLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn should be written: %q", out)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
}
