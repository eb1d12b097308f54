package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/multi-setup/internal/cmdexec"
	"github.com/hbjs97/multi-setup/internal/env"
)

// versionArgs holds the flag that makes a tool print its version.
var versionArgs = map[string]string{
	"tmux": "-V",
	"git":  "--version",
}

// Prober runs dependencies through a Commander to read their versions.
type Prober struct {
	cmd cmdexec.Commander
}

// NewProber creates a Prober.
func NewProber(cmd cmdexec.Commander) *Prober {
	return &Prober{cmd: cmd}
}

// Version returns the first output line of "<bin> <flag>".
func (p *Prober) Version(ctx context.Context, bin, flag string) (string, error) {
	out, err := p.cmd.Run(ctx, bin, flag)
	if err != nil {
		return "", fmt.Errorf("doctor.Version: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}

// CheckVersions reports the version of every name found on the snapshot PATH
// that has a known version flag. Unknown or missing tools are left out; a
// tool that fails to report its version is a warning.
func (p *Prober) CheckVersions(ctx context.Context, snap *env.Snapshot, names []string) []DiagResult {
	var results []DiagResult
	for _, name := range names {
		flag, ok := versionArgs[name]
		if !ok {
			continue
		}
		bin, err := snap.LookPath(name)
		if err != nil {
			continue
		}
		version, err := p.Version(ctx, bin, flag)
		if err != nil {
			results = append(results, DiagResult{
				Name:    name + "_version",
				Status:  StatusWarn,
				Message: fmt.Sprintf("%s %s failed: %v", name, flag, err),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    name + "_version",
			Status:  StatusOK,
			Message: version,
		})
	}
	return results
}
