// Package logging configures the zerolog logger used for diagnostics.
// User-facing step output is rendered by the report package, not logged.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelFor maps a -v count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Setup configures the global logger to write human readable lines to
// console and JSON lines to the returned FileSink. The sink keeps lines in
// memory until Open is called, so nothing is written to disk before then.
func Setup(verbosity int, console io.Writer, logFile string) *FileSink {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	sink := &FileSink{path: logFile}
	cw := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}

	log.Logger = zerolog.New(io.MultiWriter(cw, sink)).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("logger initialized")
	return sink
}

// FileSink is the JSON side of the logger. Lines written before Open are
// buffered and flushed to the file on Open; without a path, or after Open
// failed, lines are dropped.
type FileSink struct {
	mu      sync.Mutex
	path    string
	pending bytes.Buffer
	f       *os.File
	failed  bool
}

// Write implements io.Writer. It never fails so the console side of the
// logger keeps working.
func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.f != nil:
		if _, err := s.f.Write(p); err != nil {
			s.failed = true
		}
	case s.path != "" && !s.failed:
		s.pending.Write(p)
	}
	return len(p), nil
}

// Open creates the log file and its directory, then flushes buffered lines.
// Calling it again is a no-op.
func (s *FileSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f != nil || s.failed || s.path == "" {
		return nil
	}
	f, err := openLogFile(s.path)
	if err != nil {
		s.failed = true
		s.pending.Reset()
		return err
	}
	s.f = f
	if _, err := s.pending.WriteTo(f); err != nil {
		return fmt.Errorf("logging.Open: %w", err)
	}
	return nil
}

// Path returns the log file path, empty when file logging is disabled.
func (s *FileSink) Path() string {
	return s.path
}

// Close releases the log file. Buffered lines that were never flushed are
// discarded.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending.Reset()
	s.failed = true
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// DefaultLogFile returns $XDG_STATE_HOME/multi/setup.log.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "multi", "setup.log")
}

// Get returns a logger tagged with component.
func Get(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("logging.openLogFile: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("logging.openLogFile: %w", err)
	}
	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
