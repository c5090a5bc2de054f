package services

import "errors"

// Domain errors surfaced by the matching and lifecycle services.
// Controllers map these onto HTTP statuses.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoleNotSelected     = errors.New("participant has not selected a role")
	ErrAlreadyMatched      = errors.New("participant already has an active match")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNotActive      = errors.New("match is not active")
	ErrNotMatchParticipant = errors.New("participant does not belong to this match")

	// Validation errors, mapped to 400/409 by the controllers.
	ErrInvalidRole           = errors.New("role must be frontend or backend")
	ErrRoleChangeWhileQueued = errors.New("cannot change role while waiting in the queue")
	ErrInvalidDifficulty     = errors.New("difficulty must be 0 (unset) or between 1 and 5")

	// ErrNoPartnerWaiting is returned by MatchStore.PairWithOldestWaiting
	// when the opposite-role queue is empty.
	ErrNoPartnerWaiting = errors.New("no compatible partner waiting")

	// ErrConditionFailed is returned by conditional DynamoDB writes when the
	// condition expression rejected the update (somebody else won the race).
	ErrConditionFailed = errors.New("conditional update failed")
)
