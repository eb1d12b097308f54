package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownShell is returned when no startup file is known for the shell.
var ErrUnknownShell = errors.New("unknown shell")

// Kind is the shell variant. It is resolved once per run.
type Kind string

const (
	KindZsh     Kind = "zsh"
	KindBash    Kind = "bash"
	KindUnknown Kind = "unknown"
)

// Marker precedes every export line this tool appends.
const Marker = "# Added by multi setup"

// Resolve maps a SHELL value such as "/usr/local/bin/zsh" to a Kind.
func Resolve(shellPath string) Kind {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(shellPath)))
	switch {
	case strings.Contains(base, "zsh"):
		return KindZsh
	case strings.Contains(base, "bash"):
		return KindBash
	default:
		return KindUnknown
	}
}

// ConfigFile returns the startup file a login of kind reads on goos.
// macOS terminals start bash as a login shell, which reads .bash_profile.
func ConfigFile(kind Kind, home, goos string) (string, error) {
	switch kind {
	case KindZsh:
		return filepath.Join(home, ".zshrc"), nil
	case KindBash:
		if goos == "darwin" {
			return filepath.Join(home, ".bash_profile"), nil
		}
		return filepath.Join(home, ".bashrc"), nil
	default:
		return "", fmt.Errorf("shell.ConfigFile: %q: %w", kind, ErrUnknownShell)
	}
}

// homeRelative returns dir relative to home, or "" when dir is outside home.
func homeRelative(dir, home string) string {
	if home == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Clean(home), filepath.Clean(dir))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// ExportLine renders the line that prepends dir to PATH. Directories under
// home are written as $HOME/... so the file stays portable across machines.
func ExportLine(dir, home string) string {
	if rel := homeRelative(dir, home); rel != "" {
		return fmt.Sprintf(`export PATH="$HOME/%s:$PATH"`, rel)
	}
	return fmt.Sprintf(`export PATH="%s:$PATH"`, filepath.Clean(dir))
}

// Block is the text appended to a startup file: a blank line, the marker and
// the export line.
func Block(dir, home string) string {
	return "\n" + Marker + "\n" + ExportLine(dir, home) + "\n"
}

// References reports whether content already mentions dir, either as an
// absolute path or through one of the usual home spellings.
func References(content, dir, home string) bool {
	if content == "" || dir == "" {
		return false
	}
	spellings := []string{filepath.Clean(dir)}
	if rel := homeRelative(dir, home); rel != "" {
		spellings = append(spellings,
			"$HOME/"+rel,
			"${HOME}/"+rel,
			"~/"+rel,
		)
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, s := range spellings {
			if containsPathToken(line, s) {
				return true
			}
		}
	}
	return false
}

// containsPathToken matches s only as a whole path: the character before it
// must not be part of a path and the one after it, past an optional trailing
// slash, must end the token. "/x/.local/bin-old" and "/srv/x/.local/bin" do
// not count as "/x/.local/bin"; "/x/.local/bin/" does.
func containsPathToken(line, s string) bool {
	for i := 0; ; {
		idx := strings.Index(line[i:], s)
		if idx < 0 {
			return false
		}
		start := i + idx
		end := start + len(s)
		if end < len(line) && line[end] == '/' {
			end++
		}
		if (start == 0 || !isPathChar(line[start-1])) && (end == len(line) || endsToken(line[end])) {
			return true
		}
		i = start + 1
	}
}

func isPathChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("/.-_~${}", c) >= 0
}

func endsToken(c byte) bool {
	return strings.IndexByte(":\"' \t);", c) >= 0
}
