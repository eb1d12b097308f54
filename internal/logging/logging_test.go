package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// get returns an addressable Get result so pointer-receiver level
// methods can be called on it.
func get(component string) *zerolog.Logger {
	l := Get(component)
	return &l
}

func restoreGlobals(t *testing.T) {
	t.Helper()
	level := zerolog.GlobalLevel()
	logger := log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	})
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, LevelFor(-1))
	assert.Equal(t, zerolog.WarnLevel, LevelFor(0))
	assert.Equal(t, zerolog.InfoLevel, LevelFor(1))
	assert.Equal(t, zerolog.DebugLevel, LevelFor(2))
	assert.Equal(t, zerolog.TraceLevel, LevelFor(5))
}

func TestSetup_ConsoleOnly(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	sink := Setup(1, &buf, "")
	defer sink.Close()

	get("bootstrap").Info().Str("step", "symlink").Msg("installed")
	get("bootstrap").Debug().Msg("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "installed")
	assert.Contains(t, out, "component=bootstrap")
	assert.NotContains(t, out, "hidden at info level")
	assert.NotContains(t, out, "\x1b[", "buffers get no color")
}

func TestSetup_NothingOnDiskBeforeOpen(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	dir := filepath.Join(t.TempDir(), "state")
	logFile := filepath.Join(dir, "multi", "setup.log")

	sink := Setup(0, &buf, logFile)
	get("bootstrap").Error().Msg("dependency check failed")
	require.NoError(t, sink.Close())

	assert.Contains(t, buf.String(), "dependency check failed")
	assert.NoDirExists(t, dir)
}

func TestSetup_OpenFlushesBufferedLines(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "state", "multi", "setup.log")

	sink := Setup(0, &buf, logFile)
	get("bootstrap").Warn().Msg("before open")
	require.NoError(t, sink.Open())
	require.NoError(t, sink.Open())
	get("bootstrap").Warn().Msg("unknown shell")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"before open"`)
	assert.Contains(t, string(data), `"message":"unknown shell"`)
	assert.Contains(t, string(data), `"component":"bootstrap"`)
	assert.Equal(t, logFile, sink.Path())
}

func TestSetup_UnwritableLogFileFallsBackToConsole(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	sink := Setup(0, &buf, filepath.Join(blocker, "setup.log"))
	defer sink.Close()

	assert.Error(t, sink.Open())
	get("bootstrap").Warn().Msg("still logged")
	assert.Contains(t, buf.String(), "still logged")
}

func TestSetup_NoLogFile(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	sink := Setup(0, &buf, "")
	get("bootstrap").Warn().Msg("console only")
	assert.NoError(t, sink.Open())
	assert.NoError(t, sink.Close())
	assert.Contains(t, buf.String(), "console only")
}

func TestDefaultLogFile(t *testing.T) {
	assert.Equal(t, "setup.log", filepath.Base(DefaultLogFile()))
	assert.Equal(t, "multi", filepath.Base(filepath.Dir(DefaultLogFile())))
}
