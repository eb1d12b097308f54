// Package bootstrap runs the setup sequence for the multi companion tool:
// dependency check, PATH check and shell config update, symlink install,
// smoke test. Steps run in order; only a missing dependency or a failed
// install aborts the run, everything else degrades to a warning.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hbjs97/multi-setup/internal/cmdexec"
	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/doctor"
	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/install"
	"github.com/hbjs97/multi-setup/internal/setup"
	"github.com/hbjs97/multi-setup/internal/shell"
)

// ErrCommandUnavailable is reported when the installed command cannot be
// found on PATH after installation.
var ErrCommandUnavailable = errors.New("command unavailable")

// Step names used in the report.
const (
	StepDependencies = "dependencies"
	StepPath         = "path"
	StepShellConfig  = "shell_config"
	StepSymlink      = "symlink"
	StepSmokeTest    = "smoke_test"
)

// Report is the per-step outcome of a run.
type Report struct {
	Results []doctor.DiagResult
	// Warnings holds the non-fatal errors behind WARN results.
	Warnings []error

	Shell      shell.Kind
	BinDir     string
	LinkPath   string
	Source     string
	ConfigFile string
	// PathChanged is true when the export line was appended during this run.
	PathChanged bool
	// PathActive is true when the snapshot PATH already contains BinDir.
	PathActive bool
}

func (r *Report) add(res doctor.DiagResult) {
	r.Results = append(r.Results, res)
}

func (r *Report) warn(res doctor.DiagResult, err error) {
	res.Status = doctor.StatusWarn
	r.Results = append(r.Results, res)
	if err != nil {
		r.Warnings = append(r.Warnings, err)
	}
}

// Bootstrapper holds everything a run needs. Env is captured once by the
// caller and never re-read from the process.
type Bootstrapper struct {
	Env       *env.Snapshot
	Config    *config.Config
	Source    string
	Commander cmdexec.Commander
	// Prompter, when set, is asked before the shell config file is changed.
	Prompter setup.Prompter
	Logger   zerolog.Logger
	// Ready, when set, runs once the dependency check has passed and before
	// the first filesystem change.
	Ready func()
}

// Run executes the steps in order and returns the report. The error wraps
// doctor.ErrMissingDependency or install.ErrSourceNotFound on fatal failures;
// the report is returned in every case.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	kind := shell.Resolve(b.Env.Shell)
	rep := &Report{
		Shell:    kind,
		BinDir:   b.Config.ResolveBinDir(b.Env),
		LinkPath: b.Config.LinkPath(b.Env),
		Source:   b.Source,
	}
	b.Logger.Debug().
		Str("shell", string(kind)).
		Str("os", b.Env.OS).
		Str("platform", b.Env.Platform).
		Str("binDir", rep.BinDir).
		Msg("starting setup")

	if err := b.checkDependencies(rep); err != nil {
		return rep, fmt.Errorf("bootstrap.Run: %w", err)
	}
	if b.Ready != nil {
		b.Ready()
	}

	b.ensurePath(rep, kind)

	if err := b.installLink(rep); err != nil {
		return rep, fmt.Errorf("bootstrap.Run: %w", err)
	}

	b.smokeTest(ctx, rep)
	return rep, nil
}

func (b *Bootstrapper) checkDependencies(rep *Report) error {
	results, err := doctor.RequireDependencies(b.Env, b.Config.Dependencies)
	for _, r := range results {
		r.Name = StepDependencies + ":" + r.Name
		rep.add(r)
	}
	if err != nil {
		b.Logger.Error().Err(err).Msg("dependency check failed")
		return err
	}
	return nil
}

func (b *Bootstrapper) ensurePath(rep *Report, kind shell.Kind) {
	rep.PathActive = b.Env.PathContains(rep.BinDir)
	if rep.PathActive {
		rep.add(doctor.DiagResult{
			Name:    StepPath,
			Status:  doctor.StatusOK,
			Message: fmt.Sprintf("%s is already on PATH", rep.BinDir),
		})
	} else {
		rep.add(doctor.DiagResult{
			Name:    StepPath,
			Status:  doctor.StatusWarn,
			Message: fmt.Sprintf("%s is not on PATH", rep.BinDir),
		})
	}

	res, err := setup.EnsurePathConfigured(b.Env, kind, rep.BinDir, setup.ConfirmWith(b.Prompter))
	rep.ConfigFile = res.ConfigFile
	if err != nil {
		b.Logger.Warn().Err(err).Msg("shell config not updated")
		msg := fmt.Sprintf("could not update %s: %v", res.ConfigFile, err)
		if errors.Is(err, shell.ErrUnknownShell) {
			msg = fmt.Sprintf("unrecognized shell %q", b.Env.Shell)
		}
		rep.warn(doctor.DiagResult{
			Name:    StepShellConfig,
			Message: msg,
			Fix:     fmt.Sprintf("add this line to your shell startup file: %s", res.Line),
		}, err)
		return
	}

	switch res.Outcome {
	case setup.PathAlreadyActive:
		rep.add(doctor.DiagResult{Name: StepShellConfig, Status: doctor.StatusSkip, Message: "PATH already configured"})
	case setup.PathAlreadyConfigured:
		rep.add(doctor.DiagResult{
			Name:    StepShellConfig,
			Status:  doctor.StatusOK,
			Message: fmt.Sprintf("%s already references %s", res.ConfigFile, rep.BinDir),
		})
	case setup.PathAppended:
		rep.PathChanged = true
		b.Logger.Info().Str("file", res.ConfigFile).Msg("appended PATH export")
		rep.add(doctor.DiagResult{
			Name:    StepShellConfig,
			Status:  doctor.StatusOK,
			Message: fmt.Sprintf("added %s to %s", rep.BinDir, res.ConfigFile),
		})
	case setup.PathDeclined:
		rep.warn(doctor.DiagResult{
			Name:    StepShellConfig,
			Message: fmt.Sprintf("left %s unchanged", res.ConfigFile),
			Fix:     fmt.Sprintf("add this line to %s: %s", res.ConfigFile, res.Line),
		}, nil)
	}
}

func (b *Bootstrapper) installLink(rep *Report) error {
	if err := install.InstallSymlink(b.Source, rep.LinkPath); err != nil {
		res := doctor.DiagResult{
			Name:    StepSymlink,
			Status:  doctor.StatusFail,
			Message: err.Error(),
		}
		if errors.Is(err, install.ErrSourceNotFound) {
			res.Message = fmt.Sprintf("companion script not found at %s", b.Source)
			res.Fix = "run multi-setup from the multi checkout or pass --source"
		}
		rep.add(res)
		b.Logger.Error().Err(err).Str("source", b.Source).Msg("install failed")
		return err
	}
	rep.add(doctor.DiagResult{
		Name:    StepSymlink,
		Status:  doctor.StatusOK,
		Message: fmt.Sprintf("%s -> %s", rep.LinkPath, b.Source),
	})
	return nil
}

// smokeTest runs the installed command only when the current PATH can
// already see it; a PATH change made by this run needs a new shell first.
func (b *Bootstrapper) smokeTest(ctx context.Context, rep *Report) {
	if !rep.PathActive {
		fix := "open a new terminal"
		if rep.ConfigFile != "" {
			fix = fmt.Sprintf("open a new terminal or run: source %s", rep.ConfigFile)
		}
		rep.add(doctor.DiagResult{
			Name:    StepSmokeTest,
			Status:  doctor.StatusSkip,
			Message: "PATH change takes effect in a new shell",
			Fix:     fix,
		})
		return
	}

	name := b.Config.LinkName
	bin, err := b.Env.LookPath(name)
	if err != nil {
		rep.warn(doctor.DiagResult{
			Name:    StepSmokeTest,
			Message: fmt.Sprintf("%s not found on PATH", name),
			Fix:     fmt.Sprintf("check that %s is executable", rep.LinkPath),
		}, fmt.Errorf("bootstrap.smokeTest: %s: %w", name, ErrCommandUnavailable))
		return
	}
	if bin != rep.LinkPath {
		b.Logger.Warn().Str("found", bin).Str("installed", rep.LinkPath).Msg("another command shadows the installed link")
	}

	args := b.Config.SmokeArgs
	out, err := b.Commander.RunWithEnv(ctx, b.Env.CommandEnv(), bin, args...)
	if err != nil {
		b.Logger.Debug().Str("output", string(out)).Int("exit", cmdexec.ExitCode(err)).Msg("smoke test failed")
		rep.warn(doctor.DiagResult{
			Name:    StepSmokeTest,
			Message: fmt.Sprintf("%s %s failed: %s", name, strings.Join(args, " "), firstLine(out, err)),
		}, fmt.Errorf("bootstrap.smokeTest: %w", err))
		return
	}
	rep.add(doctor.DiagResult{
		Name:    StepSmokeTest,
		Status:  doctor.StatusOK,
		Message: fmt.Sprintf("%s %s works", name, strings.Join(args, " ")),
	})
}

func firstLine(out []byte, err error) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return err.Error()
	}
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// LocateSource returns the first candidate that exists as a regular file, or
// the first non-empty candidate so the install step can report it missing.
func LocateSource(candidates ...string) string {
	first := ""
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if first == "" {
			first = c
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(c); err == nil {
				return abs
			}
			return c
		}
	}
	return first
}
