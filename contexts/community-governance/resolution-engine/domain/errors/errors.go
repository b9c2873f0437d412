package errors

import "errors"

var (
	// Not found.
	ErrVoteNotFound    = errors.New("subject vote not found")
	ErrOptionNotFound  = errors.New("vote option not found")
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrBallotNotFound  = errors.New("ballot not found")
	ErrUserNotFound    = errors.New("user not found")

	// Validation.
	ErrInvalidInput   = errors.New("invalid resolution input")
	ErrTooFewOptions  = errors.New("at least 2 options required")
	ErrOptionMismatch = errors.New("option does not belong to this vote")
	ErrInvalidSide    = errors.New("side must be corrector or corrected")
	ErrSameSideVote   = errors.New("already voted for this side")

	// Authorization.
	ErrForbidden = errors.New("principal is not allowed to perform this operation")
	ErrStaffOnly = errors.New("staff role required")

	// State conflicts.
	ErrResolutionClosed = errors.New("resolution is not open")
	ErrBallotExists     = errors.New("ballot already exists for this principal")
)
