package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8710, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 0.05, cfg.Feedback.ConfidenceDelta)
	assert.Equal(t, 10, cfg.Triage.SearchTopK)
	assert.NotEmpty(t, cfg.Routing.Departments)
	assert.NotEmpty(t, cfg.Analysis.Confidence.StageBases)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9999
logging:
  level: debug
  format: console
corpus:
  dir: /var/lib/mailroom/corpus
  watch: true
feedback:
  confidence_delta: 0.02
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/var/lib/mailroom/corpus", cfg.Corpus.Dir)
	assert.True(t, cfg.Corpus.Watch)
	assert.Equal(t, 0.02, cfg.Feedback.ConfidenceDelta)

	// Untouched sections still get defaults.
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.NotEmpty(t, cfg.Routing.Departments)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  http_port: 9999\n")
	t.Setenv("SERVER_HTTP_PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "logging:\n  format: xml\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "logging format")
}

func TestValidate_StageBasesOrder(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Confidence.StageBases = []float64{0.5, 0.3}
	require.ErrorContains(t, cfg.Validate(), "non-decreasing")
}
