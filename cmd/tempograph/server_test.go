package tempograph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempograph/tempograph/pkg/config"
	"github.com/tempograph/tempograph/pkg/telemetry"
)

func TestBuildLoggerHonorsJSONFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	var buf strings.Builder
	logger, flush, err := buildLoggerTo(&buf, cfg)
	require.NoError(t, err)
	defer flush()

	logger.Info("plain record")
	assert.Contains(t, buf.String(), `"msg":"plain record"`)
}

func TestBuildLoggerTelemetryKeepsFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Telemetry.ParquetPath = t.TempDir()

	var buf strings.Builder
	logger, flush, err := buildLoggerTo(&buf, cfg)
	require.NoError(t, err)
	defer flush()

	_, ok := logger.Handler().(*telemetry.ParquetHandler)
	assert.True(t, ok, "telemetry path should wrap the base handler")

	// The wrapped base handler must still follow the configured format.
	logger.Info("wrapped record")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"msg":"wrapped record"`)
}
