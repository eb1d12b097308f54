package setup

import (
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/shell"
)

// PathOutcome describes what EnsurePathConfigured did.
type PathOutcome string

const (
	// PathAlreadyActive means PATH already contains the directory.
	PathAlreadyActive PathOutcome = "already-active"
	// PathAlreadyConfigured means the startup file already references it.
	PathAlreadyConfigured PathOutcome = "already-configured"
	// PathAppended means the export block was appended.
	PathAppended PathOutcome = "appended"
	// PathManualAction means the user has to add the line by hand.
	PathManualAction PathOutcome = "manual-action"
	// PathDeclined means the user declined the change when asked.
	PathDeclined PathOutcome = "declined"
)

// PathResult is the outcome of EnsurePathConfigured.
type PathResult struct {
	Outcome    PathOutcome
	ConfigFile string
	// Line is the export line that was (or should be) added.
	Line string
}

// Confirm asks whether line may be appended to configFile.
// A nil Confirm appends without asking.
type Confirm func(configFile, line string) (bool, error)

// EnsurePathConfigured makes dir part of PATH for future shells of kind.
// It never writes when PATH already contains dir or the startup file already
// references it, so repeated runs leave the file unchanged.
func EnsurePathConfigured(snap *env.Snapshot, kind shell.Kind, dir string, confirm Confirm) (PathResult, error) {
	line := shell.ExportLine(dir, snap.Home)

	if snap.PathContains(dir) {
		return PathResult{Outcome: PathAlreadyActive, Line: line}, nil
	}

	rcPath, err := shell.ConfigFile(kind, snap.Home, snap.OS)
	if err != nil {
		return PathResult{Outcome: PathManualAction, Line: line}, fmt.Errorf("setup.EnsurePathConfigured: %w", err)
	}
	result := PathResult{ConfigFile: rcPath, Line: line}

	existing, err := os.ReadFile(rcPath)
	if err != nil && !os.IsNotExist(err) {
		result.Outcome = PathManualAction
		return result, fmt.Errorf("setup.EnsurePathConfigured: %w", err)
	}
	if shell.References(string(existing), dir, snap.Home) {
		result.Outcome = PathAlreadyConfigured
		return result, nil
	}

	if confirm != nil {
		ok, err := confirm(rcPath, line)
		if err != nil {
			result.Outcome = PathManualAction
			return result, fmt.Errorf("setup.EnsurePathConfigured: %w", err)
		}
		if !ok {
			result.Outcome = PathDeclined
			return result, nil
		}
	}

	block := shell.Block(dir, snap.Home)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		block = "\n" + block
	}
	if err := appendToFile(rcPath, block); err != nil {
		result.Outcome = PathManualAction
		return result, err
	}

	result.Outcome = PathAppended
	return result, nil
}

func appendToFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("setup.appendToFile: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("setup.appendToFile: %w", err)
	}
	return f.Close()
}
