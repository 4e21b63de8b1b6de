package utils

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("NUTRILOG_TEST_STR", "  value ")
	t.Setenv("NUTRILOG_TEST_INT", "42")
	t.Setenv("NUTRILOG_TEST_BAD_INT", "forty")
	t.Setenv("NUTRILOG_TEST_BOOL", "yes")
	t.Setenv("NUTRILOG_TEST_DUR", "250ms")
	t.Setenv("NUTRILOG_TEST_SECS", "30")

	if got := GetEnv("NUTRILOG_TEST_STR", "def", nil); got != "value" {
		t.Fatalf("GetEnv=%q", got)
	}
	if got := GetEnv("NUTRILOG_TEST_MISSING", "def", nil); got != "def" {
		t.Fatalf("GetEnv default=%q", got)
	}
	if got := GetEnvAsInt("NUTRILOG_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("GetEnvAsInt=%d", got)
	}
	if got := GetEnvAsInt("NUTRILOG_TEST_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt fallback=%d", got)
	}
	if !GetEnvAsBool("NUTRILOG_TEST_BOOL", false, nil) {
		t.Fatalf("GetEnvAsBool=false")
	}
	if got := GetEnvAsDuration("NUTRILOG_TEST_DUR", time.Second, nil); got != 250*time.Millisecond {
		t.Fatalf("GetEnvAsDuration=%s", got)
	}
	if got := GetEnvAsDuration("NUTRILOG_TEST_SECS", time.Second, nil); got != 30*time.Second {
		t.Fatalf("GetEnvAsDuration secs=%s", got)
	}
}
