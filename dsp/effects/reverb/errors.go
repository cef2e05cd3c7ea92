package reverb

import "errors"

var (
	// ErrInvalidArgument reports a non-positive or non-finite sample rate,
	// an unknown type or an invalid option.
	ErrInvalidArgument = errors.New("reverb: invalid argument")
	// ErrAllocation reports that a delay buffer could not be sized.
	ErrAllocation = errors.New("reverb: allocation failed")
	// ErrUnsupported reports an operation the selected topology forbids.
	ErrUnsupported = errors.New("reverb: unsupported operation")
	// ErrNotReady reports an operation on an engine that is not ready.
	ErrNotReady = errors.New("reverb: engine not ready")
)
