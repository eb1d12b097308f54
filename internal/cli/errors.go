package cli

import (
	"github.com/hbjs97/multi-setup/internal/bootstrap"
	"github.com/hbjs97/multi-setup/internal/config"
	"github.com/hbjs97/multi-setup/internal/doctor"
	"github.com/hbjs97/multi-setup/internal/install"
	"github.com/hbjs97/multi-setup/internal/shell"
)

// Sentinel errors of the domain packages, re-exported for callers of the CLI.
var (
	// ErrMissingDependency means a required executable is not on PATH.
	ErrMissingDependency = doctor.ErrMissingDependency
	// ErrSourceNotFound means the multi script could not be found.
	ErrSourceNotFound = install.ErrSourceNotFound
	// ErrUnknownShell means the shell startup file could not be determined.
	ErrUnknownShell = shell.ErrUnknownShell
	// ErrCommandUnavailable means the installed command did not resolve on PATH.
	ErrCommandUnavailable = bootstrap.ErrCommandUnavailable
	// ErrConfig means the config file is unreadable or invalid.
	ErrConfig = config.ErrConfig
)
