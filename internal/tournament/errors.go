package tournament

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrCapacity   = errors.New("capacity exceeded")
	ErrState      = errors.New("invalid state")
	ErrIO         = errors.New("io error")
)

var (
	ErrInvalidIDFormat  = fmt.Errorf("%w: player id must be APUTCP followed by 3 digits", ErrValidation)
	ErrInvalidStage     = fmt.Errorf("%w: unknown stage", ErrValidation)
	ErrInvalidSelection = fmt.Errorf("%w: selection out of range", ErrValidation)
	ErrInvalidField     = fmt.Errorf("%w: field must be non-empty and contain no commas", ErrValidation)

	ErrPlayerNotFound = fmt.Errorf("%w: player", ErrNotFound)
	ErrMatchNotFound  = fmt.Errorf("%w: match", ErrNotFound)
	ErrCourtNotFound  = fmt.Errorf("%w: court", ErrNotFound)

	ErrAlreadyScheduled    = fmt.Errorf("%w: player is already scheduled in this stage", ErrState)
	ErrNoOpponentAvailable = fmt.Errorf("%w: no opponent available in this stage", ErrState)
	ErrTerminalStage       = fmt.Errorf("%w: player is already at the final stage", ErrState)
	ErrNoCompletedMatch    = fmt.Errorf("%w: player has no completed match in the current stage", ErrState)
	ErrInvalidTransition   = fmt.Errorf("%w: match status transition not allowed", ErrState)
	ErrPlayerWithdrawn     = fmt.Errorf("%w: player has withdrawn from the tournament", ErrState)
)
