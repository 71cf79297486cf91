package state

import "errors"

// Sentinel errors returned by Reduce.
var (
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrUnknownMetric        = errors.New("unknown metric")
	ErrDuplicateParticipant = errors.New("participant already exists")
	ErrInvalidParticipant   = errors.New("invalid participant")
	ErrUnknownAction        = errors.New("unknown action")
)
