package autoparam

import "errors"

// Sentinel errors for library operations.
var (
	// Configuration errors. These are fatal and raised before any rewriting.
	ErrNoParams         = errors.New("params must contain at least one parameter")
	ErrInvalidParamMode = errors.New("paramMode must be one of: preserve | override | replace")

	// File orchestration errors.
	ErrNotHTMLFile = errors.New("file does not have an HTML extension")
	ErrReadFile    = errors.New("failed to read HTML file")
	ErrWriteFile   = errors.New("failed to write HTML file")
)
