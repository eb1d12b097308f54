package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbjs97/multi-setup/internal/cmdexec"
	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/env"
	"github.com/hbjs97/multi-setup/internal/logging"
	"github.com/hbjs97/multi-setup/internal/setup"
)

// App holds the dependencies shared by all commands. Zero-valued fields fall
// back to the production implementations.
type App struct {
	Commander cmdexec.Commander
	// Prompter is used only with --interactive.
	Prompter setup.Prompter
	// Capture reads the process environment; tests replace it.
	Capture func(ctx context.Context) (*env.Snapshot, error)

	CfgPath     string
	Source      string
	LogFile     string
	Verbose     int
	Interactive bool

	logSink *logging.FileSink
}

// NewRootCmd creates the multi-setup root command with production defaults.
func NewRootCmd() *cobra.Command {
	app := &App{
		Commander: &cmdexec.RealCommander{},
		CfgPath:   config.DefaultPath(),
		LogFile:   logging.DefaultLogFile(),
	}
	return app.NewRootCmd()
}

// NewRootCmd creates the root command bound to a. Running it without a
// subcommand performs the setup.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "multi-setup",
		Short:        "Install the multi command and put it on PATH",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logSink = logging.Setup(a.Verbose, cmd.ErrOrStderr(), a.LogFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeLog()
			return a.runBootstrap(cmd.Context(), cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.CfgPath, "config", a.CfgPath, "config file path")
	flags.StringVar(&a.Source, "source", a.Source, "path to the multi script (default: next to this binary, then ./multi)")
	flags.StringVar(&a.LogFile, "log-file", a.LogFile, "diagnostic log file, empty to disable")
	flags.CountVarP(&a.Verbose, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	cmd.Flags().BoolVar(&a.Interactive, "interactive", a.Interactive, "ask before changing the shell startup file")

	cmd.AddCommand(a.newDoctorCmd())
	return cmd
}

func (a *App) closeLog() {
	if a.logSink != nil {
		_ = a.logSink.Close()
		a.logSink = nil
	}
}

func (a *App) capture(ctx context.Context) (*env.Snapshot, error) {
	if a.Capture != nil {
		return a.Capture(ctx)
	}
	return env.Capture(ctx)
}

func (a *App) commander() cmdexec.Commander {
	if a.Commander != nil {
		return a.Commander
	}
	return &cmdexec.RealCommander{}
}

func (a *App) prompter() setup.Prompter {
	if !a.Interactive {
		return nil
	}
	if a.Prompter != nil {
		return a.Prompter
	}
	return &setup.HuhPrompter{}
}

// sourceCandidates lists where the multi script is looked for, in order. An
// explicit --source or config source is the only candidate, so a wrong path
// fails instead of falling back to another script.
func (a *App) sourceCandidates(cfg *config.Config, snap *env.Snapshot) []string {
	if a.Source != "" {
		return []string{a.Source}
	}
	if src := cfg.ResolveSource(snap); src != "" {
		return []string{src}
	}
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), cfg.LinkName))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, cfg.LinkName))
	}
	return candidates
}
