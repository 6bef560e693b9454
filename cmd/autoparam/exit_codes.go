package main

import (
	"errors"
	"os"

	autoparam "github.com/newgentdigital/go-autoparam"
	"github.com/newgentdigital/go-autoparam/internal/config"
	"github.com/newgentdigital/go-autoparam/internal/linkaudit"
)

// Exit codes for autoparam CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitPending = 4 // check found links without the configured params
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrPendingLinks) {
		return ExitPending
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, autoparam.ErrReadFile) ||
		errors.Is(err, autoparam.ErrWriteFile) ||
		errors.Is(err, linkaudit.ErrParse) ||
		errors.Is(err, ErrFilesFailed) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidLogFormat) ||
		errors.Is(err, autoparam.ErrNoParams) ||
		errors.Is(err, autoparam.ErrInvalidParamMode) ||
		errors.Is(err, autoparam.ErrNotHTMLFile) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidParam) ||
		errors.Is(err, config.ErrInvalidParamValue) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, config.ErrInvalidExtension) {
		return ExitUsage
	}

	return ExitGeneral
}
