// Package env captures the process environment once so that every setup
// step works from the same explicit values instead of reading os.Getenv ad hoc.
package env

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// platformInformation is swapped in tests.
var platformInformation = host.PlatformInformationWithContext

// Snapshot holds the environment values a setup run depends on.
type Snapshot struct {
	// Path is the raw PATH value.
	Path string
	// Home is the user's home directory.
	Home string
	// Shell is the raw SHELL value (e.g. "/bin/zsh").
	Shell string
	// OS is the GOOS value ("darwin", "linux", ...).
	OS string
	// Platform is the Linux distribution id, empty when unknown.
	Platform string
}

// Capture reads PATH, HOME and SHELL from the process environment.
// HOME falls back to os.UserHomeDir when unset.
func Capture(ctx context.Context) (*Snapshot, error) {
	home := os.Getenv("HOME")
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("env.Capture: %w", err)
		}
		home = h
	}

	s := &Snapshot{
		Path:  os.Getenv("PATH"),
		Home:  home,
		Shell: os.Getenv("SHELL"),
		OS:    runtime.GOOS,
	}
	s.Platform = detectPlatform(ctx, s.OS)
	return s, nil
}

// detectPlatform returns the distribution id on Linux. Detection failures are
// not errors; the caller only uses the value for diagnostics.
func detectPlatform(ctx context.Context, goos string) string {
	if goos != "linux" {
		return ""
	}
	platform, _, _, err := platformInformation(ctx)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(platform))
}

// PathDirs returns the non-empty PATH segments in order.
func (s *Snapshot) PathDirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(s.Path) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// PathContains reports whether dir is one of the PATH segments.
// Both sides are cleaned, so a trailing slash does not matter.
func (s *Snapshot) PathContains(dir string) bool {
	if dir == "" {
		return false
	}
	want := filepath.Clean(dir)
	for _, d := range s.PathDirs() {
		if filepath.Clean(d) == want {
			return true
		}
	}
	return false
}

// LookPath searches the snapshot PATH (not the live process PATH) for an
// executable regular file named name.
func (s *Snapshot) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("env.LookPath: %s: %w", name, exec.ErrNotFound)
	}
	for _, dir := range s.PathDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("env.LookPath: %s: %w", name, exec.ErrNotFound)
}

// ExpandHome replaces a leading "~" or "$HOME" with the snapshot home.
func (s *Snapshot) ExpandHome(p string) string {
	switch {
	case p == "~" || p == "$HOME" || p == "${HOME}":
		return s.Home
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(s.Home, p[2:])
	case strings.HasPrefix(p, "$HOME/"):
		return filepath.Join(s.Home, p[len("$HOME/"):])
	case strings.HasPrefix(p, "${HOME}/"):
		return filepath.Join(s.Home, p[len("${HOME}/"):])
	}
	return p
}

// CommandEnv returns the variables child processes must see so that they
// resolve commands against the snapshot rather than the live environment.
func (s *Snapshot) CommandEnv() map[string]string {
	return map[string]string{
		"PATH": s.Path,
		"HOME": s.Home,
	}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
