package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hbjs97/multi-setup/internal/bootstrap"
	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/doctor"
	"github.com/hbjs97/multi-setup/internal/report"
	"github.com/hbjs97/multi-setup/internal/shell"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.closeLog()
			return a.runDoctor(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// runDoctor runs the read-only checks and reports them. Findings never fail
// the command; only an unusable config or environment does.
func (a *App) runDoctor(ctx context.Context, w io.Writer) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	snap, err := a.capture(ctx)
	if err != nil {
		return fmt.Errorf("cli.doctor: %w", err)
	}

	results := doctor.RunAll(snap, doctor.Target{
		Dependencies: cfg.Dependencies,
		BinDir:       cfg.ResolveBinDir(snap),
		Source:       bootstrap.LocateSource(a.sourceCandidates(cfg, snap)...),
		LinkPath:     cfg.LinkPath(snap),
		Kind:         shell.Resolve(snap.Shell),
	})
	results = append(results, doctor.NewProber(a.commander()).CheckVersions(ctx, snap, cfg.Dependencies)...)
	report.NewRenderer(w).Results(results)

	counts := report.Summary(results)
	fmt.Fprintf(w, "\n%d ok, %d warnings, %d failed\n",
		counts[doctor.StatusOK], counts[doctor.StatusWarn], counts[doctor.StatusFail])

	return nil
}
