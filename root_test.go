package recipebuilder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "Warning", want: slog.LevelWarn},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublishConfig_Enabled(t *testing.T) {
	assert.False(t, PublishConfig{Format: "json", S3Prefix: "recipes/"}.Enabled())
	assert.True(t, PublishConfig{Dir: "/tmp/cards"}.Enabled())
	assert.True(t, PublishConfig{S3Bucket: "bucket"}.Enabled())
	assert.True(t, PublishConfig{SlackWebhookURL: "http://hook"}.Enabled())
}

func TestNewSessionLogFilePath(t *testing.T) {
	path := NewSessionLogFilePath("logs", "Grandma's Apple/Pie")
	assert.Equal(t, "logs", filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".grandma's_apple_pie.json"), path)

	assert.True(t, strings.HasSuffix(NewSessionLogFilePath("logs", "  "), ".recipe.json"))
}

func TestFileSessionLogger_Flush(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewFileSessionLogger(buf)

	require.NoError(t, logger.LogStage(StageLog{Stage: 1, Name: "name", Timestamp: time.Now(), Output: "Pancakes"}))
	require.NoError(t, logger.LogStage(StageLog{Stage: 2, Name: "ingredients", Attempts: 4, Invalid: 1}))
	assert.Zero(t, buf.Len(), "stages are buffered until flush")

	require.NoError(t, logger.Flush())

	var doc struct {
		Session struct {
			Stages []StageLog `json:"stages"`
		} `json:"recipe_session"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Session.Stages, 2)
	assert.Equal(t, "ingredients", doc.Session.Stages[1].Name)
	assert.Equal(t, 1, doc.Session.Stages[1].Invalid)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFileSessionLogger_FlushError(t *testing.T) {
	logger := NewFileSessionLogger(failingWriter{})
	require.NoError(t, logger.LogStage(StageLog{Stage: 1, Name: "name"}))

	err := logger.Flush()
	assert.ErrorContains(t, err, "failed to write session log")

	assert.NoError(t, NewFileSessionLogger(nil).Flush())
}

func TestStdoutSessionLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := &StdoutSessionLogger{out: buf}

	require.NoError(t, logger.LogStage(StageLog{Stage: 3, Name: "steps"}))
	require.NoError(t, logger.LogStage(StageLog{Stage: 4, Name: "display"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"steps"`)
}

func TestNoOpSessionLogger(t *testing.T) {
	assert.NoError(t, NewNoOpSessionLogger().LogStage(StageLog{}))
}

func TestInitOtel_Disabled(t *testing.T) {
	tp, mp, shutdown, err := InitOtel(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, tp.Tracer("test"))
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, shutdown(context.Background()))
}

func TestDump(t *testing.T) {
	buf := new(bytes.Buffer)
	Dump(buf, map[string]float64{"flour": 200})
	assert.Contains(t, buf.String(), "root_test.go")
	assert.Contains(t, buf.String(), "flour")
}
