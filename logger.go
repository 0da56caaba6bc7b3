package recipebuilder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SessionLogger is the interface for the session journal.
type SessionLogger interface {
	LogStage(stage StageLog) error
}

// NewSessionLogFilePath returns a journal path under dir named after the recipe,
// so journals of different recipes are easy to tell apart.
func NewSessionLogFilePath(dir, recipeName string) string {
	name := strings.ToLower(strings.TrimSpace(recipeName))
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "recipe"
	}
	return filepath.Join(dir, fmt.Sprintf("%d.%s.json", time.Now().Unix(), name))
}

// StageLog records one stage of a session.
type StageLog struct {
	Stage     int       `json:"stage"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Attempts  int       `json:"attempts,omitempty"`
	Invalid   int       `json:"invalid,omitempty"`
	Output    any       `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FileSessionLogger accumulates stages and writes them as one document on Flush.
type FileSessionLogger struct {
	stages []StageLog
	writer io.Writer
}

// NewFileSessionLogger creates a new file-based session logger
func NewFileSessionLogger(writer io.Writer) *FileSessionLogger {
	return &FileSessionLogger{
		stages: make([]StageLog, 0),
		writer: writer,
	}
}

// LogStage buffers the stage (does not flush immediately)
func (l *FileSessionLogger) LogStage(stage StageLog) error {
	l.stages = append(l.stages, stage)
	return nil
}

// Flush writes all buffered stages to the writer
func (l *FileSessionLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"recipe_session": map[string]any{
			"timestamp": time.Now(),
			"stages":    l.stages,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}

	l.stages = l.stages[:0]
	return nil
}

// NoOpSessionLogger discards all stages
type NoOpSessionLogger struct{}

func NewNoOpSessionLogger() *NoOpSessionLogger {
	return &NoOpSessionLogger{}
}

func (nop *NoOpSessionLogger) LogStage(stage StageLog) error {
	return nil
}

// StdoutSessionLogger writes each stage as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutSessionLogger struct {
	out io.Writer
}

func NewStdoutSessionLogger() *StdoutSessionLogger {
	return &StdoutSessionLogger{out: os.Stdout}
}

// LogStage writes the stage as a single JSON line
func (l *StdoutSessionLogger) LogStage(stage StageLog) error {
	data, err := json.Marshal(stage)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(l.out, string(data))
	return err
}
