package services

import (
	"context"

	"pairup_server/models"
)

// MatchStore is the persistence contract the matching pipeline runs on.
// PairWithOldestWaiting and CompleteMatch are the two operations that must
// be atomic; everything else is plain reads and writes.
type MatchStore interface {
	// Participants. SaveParticipant is a whole-item write used only for
	// registration; profile mutations go through the attribute-scoped
	// Update* methods so they can never clobber queue or match state written
	// concurrently by the matcher.
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	SaveParticipant(ctx context.Context, participant *models.Participant) error

	// UpdateParticipantRole sets the role, guarded against the participant
	// being queued or matched: ErrRoleChangeWhileQueued / ErrAlreadyMatched.
	UpdateParticipantRole(ctx context.Context, participantID, role string) (*models.Participant, error)
	UpdateParticipantPreference(ctx context.Context, participantID string, preference *models.Preference) (*models.Participant, error)
	UpdateParticipantSkills(ctx context.Context, participantID string, skills []string) (*models.Participant, error)

	// Queue. PairWithOldestWaiting atomically claims the oldest waiting
	// participant of the opposite role (ordered by waitingSince then id),
	// clears both participants' queue state, records the match and its two
	// membership rows, and returns the claimed partner. It returns
	// ErrNoPartnerWaiting when the queue is empty and ErrAlreadyMatched when
	// the requester already holds an active match at commit time — the store
	// enforces that guard itself, it does not trust the caller's earlier
	// precondition read. Under concurrent calls a given waiter is handed to
	// exactly one requester.
	PairWithOldestWaiting(ctx context.Context, requester *models.Participant, match *models.Match) (*models.Participant, error)

	// Enqueue marks the participant as waiting from `since` unless they are
	// already queued, and returns the effective waitingSince either way.
	// A participant holding an active match is never queued: ErrAlreadyMatched.
	Enqueue(ctx context.Context, participantID, since string) (string, error)

	// CancelWaiting clears the participant's queue state. No-op when the
	// participant is not queued.
	CancelWaiting(ctx context.Context, participantID string) error

	// QueuePosition returns 1 + the number of same-role waiters strictly
	// ahead of (waitingSince, participantID) in queue order.
	QueuePosition(ctx context.Context, role, waitingSince, participantID string) (int, error)

	// Matches
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	GetMatchParticipants(ctx context.Context, matchID string) ([]models.MatchParticipant, error)

	// CompleteMatch flips an active match to completed and releases both
	// participants in one atomic step. Returns ErrConditionFailed when the
	// match is no longer active.
	CompleteMatch(ctx context.Context, matchID, completedAt, repoURL string, participantIDs []string) error
	SaveReview(ctx context.Context, matchID, review string) error

	// Assignments
	SaveAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, matchID string) (*models.Assignment, error)

	// Catalog
	ListActiveArchetypes(ctx context.Context) ([]models.Archetype, error)
	ListActiveThemes(ctx context.Context) ([]models.Theme, error)
	SaveArchetype(ctx context.Context, archetype *models.Archetype) error
	SaveTheme(ctx context.Context, theme *models.Theme) error
}
