package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New builds the console logger. Verbose lowers the level to debug;
// output goes to stderr so exports and summaries own stdout.
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", "horizon").
		Logger()
}

// RunLog is the append-only JSONL event log for one pipeline run. Every
// state-changing step emits one event, so a run can be reconstructed from
// the log alone.
type RunLog struct {
	file   *os.File
	logger zerolog.Logger
}

// NewRunLog opens (or creates) the event log for a run date under the
// data directory.
func NewRunLog(dataDir, runDate string) (*RunLog, error) {
	dir := filepath.Join(dataDir, "runs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create run log directory: %w", err)
	}

	path := filepath.Join(dir, runDate+".jsonl")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	logger := zerolog.New(file).
		With().
		Timestamp().
		Str("run_date", runDate).
		Logger()

	return &RunLog{file: file, logger: logger}, nil
}

// Event starts a log entry for a named pipeline event.
func (l *RunLog) Event(name string) *zerolog.Event {
	return l.logger.Info().Str("event", name)
}

// Close flushes and closes the underlying file.
func (l *RunLog) Close() error {
	return l.file.Close()
}

// Discard returns a logger that drops everything. Used by tests and by
// code paths that run before logging is configured.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
