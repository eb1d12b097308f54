package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/multi-setup/internal/bootstrap"
	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/logging"
	"github.com/hbjs97/multi-setup/internal/report"
)

// runBootstrap performs the setup and prints the step results followed by
// the usage banner.
func (a *App) runBootstrap(ctx context.Context, w io.Writer) error {
	log := logging.Get("cli")

	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return err
	}
	snap, err := a.capture(ctx)
	if err != nil {
		return fmt.Errorf("cli.bootstrap: %w", err)
	}

	source := bootstrap.LocateSource(a.sourceCandidates(cfg, snap)...)
	log.Debug().Str("source", source).Str("config", a.CfgPath).Msg("resolved inputs")

	b := &bootstrap.Bootstrapper{
		Env:       snap,
		Config:    cfg,
		Source:    source,
		Commander: a.commander(),
		Prompter:  a.prompter(),
		Logger:    logging.Get("bootstrap"),
		Ready:     a.openLogFile,
	}

	out := report.NewRenderer(w)
	rep, err := b.Run(ctx)
	out.Results(rep.Results)
	if err != nil {
		return err
	}
	for _, warning := range rep.Warnings {
		log.Info().Err(warning).Msg("completed with warning")
	}
	out.Banner(rep, cfg.LinkName)
	return nil
}

// openLogFile starts file logging once setup is about to change the
// filesystem. A log file that cannot be created leaves console logging.
func (a *App) openLogFile() {
	if a.logSink == nil {
		return
	}
	if err := a.logSink.Open(); err != nil {
		logger := logging.Get("cli")
		logger.Debug().Err(err).Str("path", a.logSink.Path()).Msg("logging to console only")
	}
}
