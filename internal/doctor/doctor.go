package doctor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/install"
	"github.com/hbjs97/multi-setup/internal/shell"
)

// ErrMissingDependency is wrapped by MissingDependencyError.
var ErrMissingDependency = errors.New("missing dependency")

// Status is the outcome of a check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusSkip Status = "SKIP"
	StatusFail Status = "FAIL"
)

// DiagResult is one check or setup step outcome.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// MissingDependencyError lists every required executable that was not found.
type MissingDependencyError struct {
	Names []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %s", strings.Join(e.Names, ", "))
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

var installHints = map[string]string{
	"tmux": "brew install tmux (macOS) / sudo apt install tmux (Debian/Ubuntu)",
	"git":  "brew install git (macOS) / sudo apt install git (Debian/Ubuntu)",
}

// CheckDependencies looks up each name in the snapshot PATH.
// It only stats files and never runs them.
func CheckDependencies(snap *env.Snapshot, names []string) []DiagResult {
	results := make([]DiagResult, 0, len(names))
	for _, name := range names {
		path, err := snap.LookPath(name)
		if err != nil {
			fix := installHints[name]
			if fix == "" {
				fix = fmt.Sprintf("install %s and make sure it is on PATH", name)
			}
			results = append(results, DiagResult{
				Name:    name,
				Status:  StatusFail,
				Message: fmt.Sprintf("%s not found", name),
				Fix:     fix,
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    name,
			Status:  StatusOK,
			Message: path,
		})
	}
	return results
}

// Require turns failed dependency results into a MissingDependencyError.
func Require(results []DiagResult) error {
	var missing []string
	for _, r := range results {
		if r.Status == StatusFail {
			missing = append(missing, r.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingDependencyError{Names: missing}
}

// RequireDependencies checks every name and fails with all missing names at
// once. The per-name results are returned in both cases.
func RequireDependencies(snap *env.Snapshot, names []string) ([]DiagResult, error) {
	results := CheckDependencies(snap, names)
	return results, Require(results)
}

// CheckPath reports whether binDir is on the snapshot PATH.
func CheckPath(snap *env.Snapshot, binDir string) DiagResult {
	if snap.PathContains(binDir) {
		return DiagResult{
			Name:    "path",
			Status:  StatusOK,
			Message: fmt.Sprintf("%s is on PATH", binDir),
		}
	}
	return DiagResult{
		Name:    "path",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s is not on PATH", binDir),
		Fix:     shell.ExportLine(binDir, snap.Home),
	}
}

// CheckShellConfig reports whether the startup file of kind references binDir.
func CheckShellConfig(snap *env.Snapshot, kind shell.Kind, binDir string) DiagResult {
	line := shell.ExportLine(binDir, snap.Home)
	rcPath, err := shell.ConfigFile(kind, snap.Home, snap.OS)
	if err != nil {
		return DiagResult{
			Name:    "shell_config",
			Status:  StatusWarn,
			Message: fmt.Sprintf("unrecognized shell %q", snap.Shell),
			Fix:     fmt.Sprintf("add to your shell startup file: %s", line),
		}
	}

	content, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		return DiagResult{
			Name:    "shell_config",
			Status:  StatusWarn,
			Message: fmt.Sprintf("cannot read %s: %v", rcPath, err),
		}
	}
	if shell.References(string(content), binDir, snap.Home) {
		return DiagResult{
			Name:    "shell_config",
			Status:  StatusOK,
			Message: fmt.Sprintf("%s references %s", rcPath, binDir),
		}
	}
	return DiagResult{
		Name:    "shell_config",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s does not reference %s", rcPath, binDir),
		Fix:     fmt.Sprintf("run multi-setup or add: %s", line),
	}
}

// CheckLink reports the state of the installed link.
func CheckLink(source, target string) DiagResult {
	state, dest, err := install.LinkStatus(source, target)
	if err != nil {
		return DiagResult{Name: "link", Status: StatusFail, Message: err.Error()}
	}
	switch state {
	case install.LinkOK:
		return DiagResult{Name: "link", Status: StatusOK, Message: fmt.Sprintf("%s -> %s", target, dest)}
	case install.LinkElsewhere:
		return DiagResult{
			Name:    "link",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s points to %s", target, dest),
			Fix:     "run multi-setup to relink",
		}
	case install.LinkNotSymlink:
		return DiagResult{
			Name:    "link",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s is not a symlink", target),
			Fix:     "run multi-setup to replace it",
		}
	default:
		return DiagResult{
			Name:    "link",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s not installed", target),
			Fix:     "run multi-setup",
		}
	}
}

// Target describes what RunAll inspects.
type Target struct {
	Dependencies []string
	BinDir       string
	Source       string
	LinkPath     string
	Kind         shell.Kind
}

// RunAll runs every read-only check.
func RunAll(snap *env.Snapshot, t Target) []DiagResult {
	var results []DiagResult
	results = append(results, CheckDependencies(snap, t.Dependencies)...)
	results = append(results, CheckPath(snap, t.BinDir))
	results = append(results, CheckShellConfig(snap, t.Kind, t.BinDir))
	results = append(results, CheckLink(t.Source, t.LinkPath))
	return results
}
