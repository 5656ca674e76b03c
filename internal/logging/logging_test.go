package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "api")

	log.Debug().Str("task_id", "t1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "api" || entry["task_id"] != "t1" || entry["message"] != "hello" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty", "json")

	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at fallback level: %q", buf.String())
	}

	log.Info().Msg("shown")
	if buf.Len() == 0 {
		t.Error("info not written at fallback level")
	}
}
