// Package install places the companion script on the user's PATH by
// symlinking it into the user-local binary directory.
package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSourceNotFound is returned when the companion script does not exist.
var ErrSourceNotFound = errors.New("source not found")

// LinkState is the observed state of an installed link.
type LinkState string

const (
	LinkMissing    LinkState = "missing"
	LinkOK         LinkState = "ok"
	LinkElsewhere  LinkState = "elsewhere"
	LinkNotSymlink LinkState = "not-symlink"
)

// InstallSymlink makes target a symlink to source. The parent directory of
// target is created when needed and any existing file or link at target is
// replaced, so reruns converge on the same state. Nothing is touched when
// source is missing.
func InstallSymlink(source, target string) error {
	source, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("install.InstallSymlink: %w", err)
	}

	info, err := os.Stat(source)
	if os.IsNotExist(err) {
		return fmt.Errorf("install.InstallSymlink: %s: %w", source, ErrSourceNotFound)
	}
	if err != nil {
		return fmt.Errorf("install.InstallSymlink: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("install.InstallSymlink: %s is a directory: %w", source, ErrSourceNotFound)
	}

	if err := ensureExecutable(source, info); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("install.InstallSymlink: %w", err)
	}

	if current, err := os.Readlink(target); err == nil && current == source {
		return nil
	}
	if err := removeExisting(target); err != nil {
		return err
	}

	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("install.InstallSymlink: %w", err)
	}
	return nil
}

// ensureExecutable adds the execute bits matching the read bits of source.
func ensureExecutable(source string, info os.FileInfo) error {
	mode := info.Mode().Perm()
	want := mode | (mode&0444)>>2
	if want == mode {
		return nil
	}
	if err := os.Chmod(source, want); err != nil {
		return fmt.Errorf("install.ensureExecutable: %w", err)
	}
	return nil
}

func removeExisting(target string) error {
	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("install.removeExisting: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("install.removeExisting: %s is a directory", target)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("install.removeExisting: %w", err)
	}
	return nil
}

// LinkStatus inspects target without modifying anything. The returned string
// is the current link destination when target is a symlink.
func LinkStatus(source, target string) (LinkState, string, error) {
	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return LinkMissing, "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("install.LinkStatus: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return LinkNotSymlink, "", nil
	}

	dest, err := os.Readlink(target)
	if err != nil {
		return "", "", fmt.Errorf("install.LinkStatus: %w", err)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", "", fmt.Errorf("install.LinkStatus: %w", err)
	}
	if filepath.Clean(dest) == abs {
		return LinkOK, dest, nil
	}
	return LinkElsewhere, dest, nil
}
