// Package testutil provides common test helpers for multi-setup.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeHome creates an empty home directory for a test.
func FakeHome(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WriteExecutable writes a no-op shell script named name into dir with mode
// 0755 and returns its path.
func WriteExecutable(t *testing.T, dir, name string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("WriteExecutable: mkdir failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("WriteExecutable: write failed: %v", err)
	}
	return path
}

// ToolDir creates a directory holding a fake executable for every name and
// returns it, ready to be used as a PATH segment.
func ToolDir(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		WriteExecutable(t, dir, name)
	}
	return dir
}

// JoinPath joins directories into a PATH value.
func JoinPath(dirs ...string) string {
	return strings.Join(dirs, string(os.PathListSeparator))
}

// TempConfigFile creates a temporary setup.toml with the given content
// and returns its path.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "setup.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}
	return path
}

// Snapshot walks dir and returns every entry mapped to its content, or to
// "-> dest" for symlinks. Tests use it to compare filesystem states.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()

	state := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			dest, err := os.Readlink(path)
			if err != nil {
				return err
			}
			state[rel] = "-> " + dest
		case info.IsDir():
			state[rel] = "dir"
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			state[rel] = string(data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Snapshot: walk failed: %v", err)
	}
	return state
}

// StubPrompter answers every confirm prompt with Answer and records titles.
type StubPrompter struct {
	Answer bool
	Err    error
	Titles []string
}

// RunConfirm records the title and returns the canned answer.
func (p *StubPrompter) RunConfirm(title, description string) (bool, error) {
	p.Titles = append(p.Titles, title)
	return p.Answer, p.Err
}
