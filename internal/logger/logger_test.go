package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, lvl string, f OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	t.Cleanup(UnsetTestOutput)

	InitLogger(lvl, f)
	fn()
	return buf.String()
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		log      func()
		contains []string
		excludes []string
	}{
		{
			name:     "info at info",
			level:    "info",
			log:      func() { Info("syncing repositories") },
			contains: []string{"level=INFO", `msg="syncing repositories"`},
		},
		{
			name:     "debug at debug",
			level:    "debug",
			log:      func() { Debug("executing operation", Fields{"operation": "add a@1"}) },
			contains: []string{"level=DEBUG", `operation="add a@1"`},
		},
		{
			name:     "debug hidden at info",
			level:    "info",
			log:      func() { Debug("executing operation") },
			excludes: []string{"executing operation"},
		},
		{
			name:     "warning alias",
			level:    "warning",
			log:      func() { Info("hidden"); Warnf("detector %s failed", "marker") },
			contains: []string{"level=WARN", `msg="detector marker failed"`},
			excludes: []string{"hidden"},
		},
		{
			name:     "error only",
			level:    "error",
			log:      func() { Warn("hidden"); Error("catalog closed", Fields{"error": "boom"}) },
			contains: []string{"level=ERROR", "error=boom"},
			excludes: []string{"hidden"},
		},
		{
			name:     "unknown level is info",
			level:    "loud",
			log:      func() { Debugf("hidden %d", 1); Infof("shown %d", 2) },
			contains: []string{`msg="shown 2"`},
			excludes: []string{"hidden"},
		},
		{
			name:     "success status",
			level:    "info",
			log:      func() { Success("installed", Fields{"package": "com.example.Editor"}) },
			contains: []string{"status=success", "package=com.example.Editor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, tt.level, FormatText, tt.log)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	out := capture(t, "info", FormatJSON, func() {
		Info("downloaded", Fields{"bytes": 42, "cached": true, "url": "https://example.com/a.zip"})
	})

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "downloaded", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, float64(42), rec["bytes"])
	assert.Equal(t, true, rec["cached"])
	assert.Equal(t, "https://example.com/a.zip", rec["url"])
}

func TestSetOutputFormatKeepsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	t.Cleanup(UnsetTestOutput)

	InitLogger("debug", FormatText)
	Debug("as text")
	assert.Contains(t, buf.String(), `msg="as text"`)

	buf.Reset()
	SetOutputFormat(FormatJSON)
	Debug("as json")
	assert.Contains(t, buf.String(), `"msg":"as json"`)
	assert.True(t, Enabled(slog.LevelDebug))
}

func TestParseOutputFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseOutputFormat("json"))
	assert.Equal(t, FormatJSON, ParseOutputFormat(" JSON "))
	assert.Equal(t, FormatText, ParseOutputFormat("text"))
	assert.Equal(t, FormatText, ParseOutputFormat(""))
	assert.Equal(t, FormatText, ParseOutputFormat("yaml"))
}

func TestMergeFields(t *testing.T) {
	attrs := mergeFields(Fields{"b": 1, "a": "x"}, Fields{"b": 2, "c": true})
	assert.Equal(t, []interface{}{"a", "x", "b", 2, "c", true}, attrs)
	assert.Empty(t, mergeFields())
}

func TestGetLoggerInitializes(t *testing.T) {
	mu.Lock()
	logger = nil
	mu.Unlock()

	lg := GetLogger()
	require.NotNil(t, lg)
	assert.Same(t, lg, GetLogger())
}
