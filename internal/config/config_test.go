package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// replaceFile swaps in new content atomically so the watcher never sees a
// truncated file.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, content)
	require.NoError(t, os.Rename(tmp, path))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "radians", cfg.Calculator.AngleUnit)
	assert.Equal(t, "fresh", cfg.Calculator.ResultPolicy)
	assert.Equal(t, 12, cfg.Calculator.RecentHistory)
	assert.Equal(t, 5*time.Second, cfg.Voice.PhraseLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Voice.Calibration)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	writeFile(t, path, `
server:
  addr: ":9090"
log:
  level: debug
calculator:
  angle_unit: degrees
  result_policy: continue
voice:
  listen_command: [recognize, --limit, "{limit}"]
  phrase_limit: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "degrees", cfg.Calculator.AngleUnit)
	assert.Equal(t, "continue", cfg.Calculator.ResultPolicy)
	assert.Equal(t, []string{"recognize", "--limit", "{limit}"}, cfg.Voice.ListenCommand)
	assert.Equal(t, 3*time.Second, cfg.Voice.PhraseLimit)
	// Unset fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "voice-calculator", cfg.Telemetry.ServiceName)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "calculator:\n  angle: degrees\n")
	_, err = Load(unknown)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "calculator:\n  angle_unit: gradians\n")
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculator.angle_unit")
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	writeFile(t, path, "calculator:\n  angle_unit: degrees\n")

	t.Setenv("CALC_ANGLE_UNIT", "radians")
	t.Setenv("CALC_ADDR", ":7070")
	t.Setenv("OTEL_SERVICE_NAME", "calc-test")
	t.Setenv("CALC_OTEL_TRACES", "true")
	t.Setenv("CALC_LISTEN_COMMAND", "arecord-to-text --seconds {limit}")
	t.Setenv("CALC_PHRASE_LIMIT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "radians", cfg.Calculator.AngleUnit)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "calc-test", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Telemetry.Traces)
	assert.Equal(t, []string{"arecord-to-text", "--seconds", "{limit}"}, cfg.Voice.ListenCommand)
	assert.Equal(t, 2*time.Second, cfg.Voice.PhraseLimit)
}

func TestLoadEnvErrors(t *testing.T) {
	t.Setenv("CALC_OTEL_METRICS", "sometimes")
	t.Setenv("CALC_PHRASE_LIMIT", "five seconds")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALC_OTEL_METRICS")
	assert.Contains(t, err.Error(), "CALC_PHRASE_LIMIT")
}

func TestValidateMessages(t *testing.T) {
	cfg := Default()
	cfg.Voice.PhraseLimit = 0
	cfg.Calculator.ResultPolicy = "append"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice.phrase_limit")
	assert.Contains(t, err.Error(), "calculator.result_policy")
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")
	writeFile(t, path, "calculator:\n  angle_unit: radians\n")
	initial, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, initial, zap.NewNop(), WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	changed := make(chan *Config, 4)
	w.OnChange(func(c *Config) { changed <- c })

	replaceFile(t, path, "calculator:\n  angle_unit: gradians\n")
	select {
	case c := <-changed:
		t.Fatalf("invalid config was applied: %+v", c.Calculator)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, "radians", w.Config().Calculator.AngleUnit)

	replaceFile(t, path, "calculator:\n  angle_unit: degrees\n")
	select {
	case c := <-changed:
		assert.Equal(t, "degrees", c.Calculator.AngleUnit)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Equal(t, "degrees", w.Config().Calculator.AngleUnit)
}
