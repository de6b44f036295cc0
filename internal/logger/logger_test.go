package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Adda-Baaj/wanreader/internal/config"
)

func TestInitWritesJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := initWithWriter(&config.Config{AppName: "wanreader", Env: "test", LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("initWithWriter: %v", err)
	}
	t.Cleanup(func() { S = nil })

	log.InfoObj("dropped", "k", 1)
	log.WarnObj("kept", "crawl_meta", map[string]any{"providers_count": 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["app"] != "wanreader" || entry["env"] != "test" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key in %#v", entry)
	}
	meta, ok := entry["crawl_meta"].(map[string]any)
	if !ok || meta["providers_count"] != float64(2) {
		t.Fatalf("unexpected crawl_meta %#v", entry["crawl_meta"])
	}
}

func TestPackageHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("nothing", "k", "v")
	ErrorObj("nothing", "k", "v")
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel(verbose) = %s", got)
	}
	if got := parseLevel(" DEBUG "); got.String() != "debug" {
		t.Fatalf("parseLevel(DEBUG) = %s", got)
	}
}
