package cli

import (
	"errors"
)

// ExitCode is the process exit status of multi-setup.
type ExitCode int

const (
	// ExitSuccess means setup finished, possibly with warnings.
	ExitSuccess ExitCode = 0
	// ExitGeneral covers missing dependencies, a missing source and any
	// other fatal error.
	ExitGeneral ExitCode = 1
	// ExitConfigError means the config file could not be used.
	ExitConfigError ExitCode = 5
)

// MapExitCode returns the exit code for err based on its sentinel.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrConfig) {
		return ExitConfigError
	}
	return ExitGeneral
}
