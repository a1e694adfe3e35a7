// ABOUTME: Test helpers for config tests
// ABOUTME: Isolates every variable Load reads so tests see only what they set

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// configKeys lists every variable Load or a test .env file may set
var configKeys = []string{
	"ENV_FILE", "PORT", "CACHE_TTL", "CALCULATOR_TTL", "CATALOG_PATH",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_ENABLED", "RATE_LIMIT_WRITE",
	"RATE_LIMIT_DEFAULT", "COMPARE_CONCURRENCY", "METRICS_ENABLED",
}

// isolateEnv unsets configKeys for the duration of the test, points ENV_FILE
// at a file that does not exist, then applies extra. t.Setenv restores the
// original values when the test ends.
func isolateEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for key, value := range extra {
		t.Setenv(key, value)
	}
}
