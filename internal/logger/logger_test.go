package logger

import (
	"testing"

	"salespipeline/internal/config"
)

func TestNewFallsBackOnBadInput(t *testing.T) {
	log, err := New(config.LogConfig{Level: "loud", Encoding: "xml"})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if !log.Core().Enabled(0) {
		t.Fatalf("info level should be enabled")
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("debug level should be disabled")
	}
}

func TestNewJSON(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Encoding: "json", Sampling: true})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Fatalf("debug level should be enabled")
	}
}
