package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture returns an adapter over a debug-level text logger without
// timestamps, plus the buffer it writes to.
func capture(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(base), &buf
}

// decodeLines parses JSON log output into one map per line.
func decodeLines(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		lines = append(lines, m)
	}
	return lines
}

func TestNewLogrusAdapter_LevelAndFormat(t *testing.T) {
	tests := []struct {
		level  string
		format string
		want   logrus.Level
		json   bool
	}{
		{level: "debug", format: "text", want: logrus.DebugLevel},
		{level: "INFO", format: "json", want: logrus.InfoLevel, json: true},
		{level: " warn ", format: "JSON", want: logrus.WarnLevel, json: true},
		{level: "error", format: "", want: logrus.ErrorLevel},
		{level: "loud", format: "text", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			adapter, ok := NewLogrusAdapter(tt.level, tt.format).(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.want, adapter.entry.Logger.Level)

			if tt.json {
				assert.IsType(t, &logrus.JSONFormatter{}, adapter.entry.Logger.Formatter)
			} else {
				assert.IsType(t, &logrus.TextFormatter{}, adapter.entry.Logger.Formatter)
			}
		})
	}
}

func TestNewLogrusAdapterWithOutput_UnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("verbose", "json", &buf)

	logger.Debug("Segment resolved", F(FieldSegment, "starter"))
	logger.Info("Templates resolved", F(FieldCount, 3))

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2, "debug is filtered once the level falls back to info")
	assert.Equal(t, "warning", lines[0]["level"])
	assert.Equal(t, "verbose", lines[0]["log_level"])
	assert.Equal(t, "Templates resolved", lines[1]["msg"])
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	base := logrus.New()
	adapter, ok := NewLogrusAdapterFromLogger(base).(*LogrusAdapter)
	require.True(t, ok)
	assert.Same(t, base, adapter.entry.Logger)

	adapter, ok = NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.entry.Logger)
}

func TestLogrusAdapter_LevelsCarrySegmentFields(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{
			name:  "debug",
			log:   func(l Logger) { l.Debug("Attached news to customer", F(FieldCustomerID, 7), F(FieldSegment, "starter")) },
			level: "debug",
			msg:   "Attached news to customer",
		},
		{
			name:  "info",
			log:   func(l Logger) { l.Info("Segmented customers", F(FieldStage, "segment"), F(FieldCount, 12)) },
			level: "info",
			msg:   "Segmented customers",
		},
		{
			name:  "warn",
			log:   func(l Logger) { l.Warn("Using fallback template", F(FieldSegment, "investor")) },
			level: "warning",
			msg:   "Using fallback template",
		},
		{
			name:  "error",
			log:   func(l Logger) { l.Error("Pipeline failed", F(FieldStage, "persist")) },
			level: "error",
			msg:   "Pipeline failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := capture(t)
			tt.log(logger)

			out := buf.String()
			assert.Contains(t, out, "level="+tt.level)
			assert.Contains(t, out, tt.msg)
		})
	}
}

func TestLogrusAdapter_RunScopedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	run := logger.WithFields(F(FieldRunID, "3f0c"), F(FieldStage, "generate"))
	run.Info("Generating templates", F(FieldSegments, []string{"starter", "growing"}))
	run.WithField(FieldSegment, "growing").Debug("Template generated")
	logger.Info("Run finished")

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 3)

	assert.Equal(t, "3f0c", lines[0][FieldRunID])
	assert.Equal(t, "generate", lines[0][FieldStage])
	assert.Equal(t, []interface{}{"starter", "growing"}, lines[0][FieldSegments])

	assert.Equal(t, "3f0c", lines[1][FieldRunID])
	assert.Equal(t, "growing", lines[1][FieldSegment])

	_, leaked := lines[2][FieldRunID]
	assert.False(t, leaked, "fields stay on the derived logger")
}

func TestLogrusAdapter_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("info", "json", &buf)

	logger.
		WithField(FieldSegment, "investor").
		WithError(errors.New("template generation failed: 503")).
		Warn("Using fallback template", F(FieldProvider, "huggingface"))

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "template generation failed: 503", lines[0][FieldError])
	assert.Equal(t, "investor", lines[0][FieldSegment])
	assert.Equal(t, "huggingface", lines[0][FieldProvider])
}

func TestConvertFields(t *testing.T) {
	got := convertFields([]Field{
		F(FieldSegment, "starter"),
		F(FieldCount, 3),
		F(FieldSegment, "growing"),
	})
	assert.Equal(t, logrus.Fields{FieldSegment: "growing", FieldCount: 3}, got)

	assert.Empty(t, convertFields(nil))
}

func TestFieldConstants(t *testing.T) {
	assert.Equal(t, "run_id", FieldRunID)
	assert.Equal(t, "stage", FieldStage)
	assert.Equal(t, "segment", FieldSegment)
	assert.Equal(t, "provider", FieldProvider)
	assert.Equal(t, "count", FieldCount)
	assert.Equal(t, "input_file", FieldInputFile)
	assert.Equal(t, "output_file", FieldOutputFile)
	assert.Equal(t, "error", FieldError)
}

func TestNewRotatingFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sdw-news.log")
	w := NewRotatingFileWriter(FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1})

	logger := NewLogrusAdapterWithOutput("info", "text", w)
	logger.Info("Wrote output", F(FieldOutputFile, "news.json"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Wrote output")
	assert.Contains(t, string(data), "output_file=news.json")
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
}
