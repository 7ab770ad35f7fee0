package engine

import "errors"

// Sentinel errors surfaced to the service and HTTP layers. Round-advance
// gating conditions (not ready, already generated) are reported through
// AdvanceOutcome values instead so that polling callers never treat them
// as faults; the sentinels exist for callers that need an error form.
var (
	ErrInvalidInput     = errors.New("invalid input for fixture generation")
	ErrUnresolvedDraw   = errors.New("knockout match drawn without penalty resolution")
	ErrNotReady         = errors.New("current stage is not complete")
	ErrAlreadyGenerated = errors.New("stage fixtures already generated")
)
