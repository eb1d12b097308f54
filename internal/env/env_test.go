package env

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode))
}

func TestPathContains(t *testing.T) {
	s := &Snapshot{Path: "/usr/bin:/home/u/.local/bin/::/bin"}

	assert.True(t, s.PathContains("/home/u/.local/bin"))
	assert.True(t, s.PathContains("/home/u/.local/bin/"))
	assert.True(t, s.PathContains("/bin"))
	assert.False(t, s.PathContains("/home/u/.local"))
	assert.False(t, s.PathContains("/home/u/.local/bin/extra"))
	assert.False(t, s.PathContains(""))
}

func TestPathContains_SubstringIsNotASegment(t *testing.T) {
	s := &Snapshot{Path: "/home/u/.local/bin-old:/usr/bin"}
	assert.False(t, s.PathContains("/home/u/.local/bin"))
}

func TestPathDirs_SkipsEmptySegments(t *testing.T) {
	s := &Snapshot{Path: ":/a::/b:"}
	assert.Equal(t, []string{"/a", "/b"}, s.PathDirs())
}

func TestLookPath_FindsExecutableInSnapshotPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(second, "tmux"), 0755)

	s := &Snapshot{Path: first + string(filepath.ListSeparator) + second}
	got, err := s.LookPath("tmux")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "tmux"), got)
}

func TestLookPath_FirstMatchWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "git"), 0755)
	writeFile(t, filepath.Join(second, "git"), 0755)

	s := &Snapshot{Path: first + string(filepath.ListSeparator) + second}
	got, err := s.LookPath("git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "git"), got)
}

func TestLookPath_IgnoresNonExecutable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tmux"), 0644)

	s := &Snapshot{Path: dir}
	_, err := s.LookPath("tmux")
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestLookPath_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "git"), 0755))

	s := &Snapshot{Path: dir}
	_, err := s.LookPath("git")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestLookPath_AbsoluteName(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "multi")
	writeFile(t, bin, 0755)

	s := &Snapshot{}
	got, err := s.LookPath(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, got)
}

func TestExpandHome(t *testing.T) {
	s := &Snapshot{Home: "/home/u"}

	assert.Equal(t, "/home/u/.local/bin", s.ExpandHome("~/.local/bin"))
	assert.Equal(t, "/home/u/.local/bin", s.ExpandHome("$HOME/.local/bin"))
	assert.Equal(t, "/home/u/.local/bin", s.ExpandHome("${HOME}/.local/bin"))
	assert.Equal(t, "/home/u", s.ExpandHome("~"))
	assert.Equal(t, "/opt/bin", s.ExpandHome("/opt/bin"))
	assert.Equal(t, "~user/bin", s.ExpandHome("~user/bin"))
}

func TestCommandEnv(t *testing.T) {
	s := &Snapshot{Path: "/a:/b", Home: "/home/u"}
	assert.Equal(t, map[string]string{"PATH": "/a:/b", "HOME": "/home/u"}, s.CommandEnv())
}

func TestCapture_ReadsEnvironment(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("HOME", "/home/u")
	t.Setenv("SHELL", "/bin/zsh")

	orig := platformInformation
	platformInformation = func(context.Context) (string, string, string, error) {
		return "Ubuntu", "debian", "22.04", nil
	}
	t.Cleanup(func() { platformInformation = orig })

	s, err := Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin:/bin", s.Path)
	assert.Equal(t, "/home/u", s.Home)
	assert.Equal(t, "/bin/zsh", s.Shell)
	assert.NotEmpty(t, s.OS)
	if s.OS == "linux" {
		assert.Equal(t, "ubuntu", s.Platform)
	} else {
		assert.Empty(t, s.Platform)
	}
}

func TestDetectPlatform_FailureIsSilent(t *testing.T) {
	orig := platformInformation
	platformInformation = func(context.Context) (string, string, string, error) {
		return "", "", "", errors.New("no /etc/os-release")
	}
	t.Cleanup(func() { platformInformation = orig })

	assert.Empty(t, detectPlatform(context.Background(), "linux"))
	assert.Empty(t, detectPlatform(context.Background(), "darwin"))
}
