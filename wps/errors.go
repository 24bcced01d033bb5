package wps

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBoundaryFiles means the boundary source directory holds no
	// regular files at all.
	ErrNoBoundaryFiles = errors.New("linking boundary files failed, no files found to link")

	// ErrExtensionsExhausted means more GRIBFILE link names were
	// requested than the extension space can represent.
	ErrExtensionsExhausted = errors.New("too many files to link")

	// ErrMissingExecutable means a stage binary or batch job script is
	// absent from its configured location.
	ErrMissingExecutable = errors.New("executable not found")

	// ErrInvalidDomainCount means share.max_dom is missing, not an
	// integer, or smaller than one.
	ErrInvalidDomainCount = errors.New("share.max_dom must be an integer > 0")

	// ErrInvalidTimeWindow means the start or end of the requested run
	// window is not a usable timestamp.
	ErrInvalidTimeWindow = errors.New("start and end must be valid timestamps")
)

// StageError reports a preprocessing stage whose external process
// exited with a non-zero status.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
