package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Artifact storage and audit sinks
// return these (optionally wrapped) so services can translate them into coded
// domain errors:
//   - ErrNotFound: artifact or record does not exist
//   - ErrUnavailable: sink or backing service cannot be reached
//   - ErrClosed: sink has been closed and accepts no more writes
//   - ErrCorrupt: stored bytes exist but cannot be decoded
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrClosed      = errors.New("closed")
	ErrCorrupt     = errors.New("corrupt")
)
