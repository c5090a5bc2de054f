package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pairup_server/models"

	"github.com/google/uuid"
)

// AssignmentGenerator produces assignment content for a composed prompt.
// Implementations never fail; they degrade to deterministic fallback content.
type AssignmentGenerator interface {
	GenerateAssignment(ctx context.Context, prompt, topic string) (title, description string)
}

// MatchmakingService is the FIFO matching engine: it pairs a requester with
// the oldest compatible waiter or parks the requester in the queue, and on
// pairing drives selection, prompt composition and generation to attach an
// assignment to the new match.
type MatchmakingService struct {
	Store     MatchStore
	Selection *SelectionService
	Generator AssignmentGenerator
	Now       func() time.Time
}

func NewMatchmakingService(store MatchStore, selection *SelectionService, generator AssignmentGenerator) *MatchmakingService {
	return &MatchmakingService{
		Store:     store,
		Selection: selection,
		Generator: generator,
		Now:       time.Now,
	}
}

// PartnerSummary is the slice of the partner profile returned to the requester
type PartnerSummary struct {
	ParticipantID string   `json:"participantId"`
	FullName      string   `json:"fullName,omitempty"`
	Role          string   `json:"role"`
	Skills        []string `json:"skills,omitempty"`
}

// MatchOutcome is the result of a match request: either MATCHED with the
// partner and assignment, or WAITING with the queue position.
type MatchOutcome struct {
	Status        string             `json:"status"`
	MatchID       string             `json:"matchId,omitempty"`
	Partner       *PartnerSummary    `json:"partner,omitempty"`
	Assignment    *models.Assignment `json:"assignment,omitempty"`
	WaitingSince  string             `json:"waitingSince,omitempty"`
	QueuePosition int                `json:"queuePosition,omitempty"`
}

// QueueState describes a participant's current queue membership
type QueueState struct {
	Waiting       bool   `json:"waiting"`
	WaitingSince  string `json:"waitingSince,omitempty"`
	QueuePosition int    `json:"queuePosition,omitempty"`
	ActiveMatchID string `json:"activeMatchId,omitempty"`
}

// RequestMatch attempts to pair the participant with the oldest waiting
// participant of the opposite role. When nobody compatible is waiting, the
// participant joins (or stays in) the queue. Re-polling while queued is
// idempotent.
func (s *MatchmakingService) RequestMatch(ctx context.Context, participantID, topic string) (*MatchOutcome, error) {
	participant, err := s.Store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if models.OppositeRole(participant.Role) == "" {
		return nil, ErrRoleNotSelected
	}
	if participant.ActiveMatchID != "" {
		return nil, ErrAlreadyMatched
	}

	match := &models.Match{
		MatchID:   uuid.NewString(),
		Status:    models.MatchStatusActive,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
	}

	partner, err := s.Store.PairWithOldestWaiting(ctx, participant, match)
	if errors.Is(err, ErrNoPartnerWaiting) {
		return s.joinQueue(ctx, participant)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("🎉 Matched %s (%s) with %s (%s), match %s",
		participant.ParticipantID, participant.Role, partner.ParticipantID, partner.Role, match.MatchID)

	assignment := s.produceAssignment(ctx, match.MatchID, participant, partner, topic)

	return &MatchOutcome{
		Status:  models.OutcomeMatched,
		MatchID: match.MatchID,
		Partner: &PartnerSummary{
			ParticipantID: partner.ParticipantID,
			FullName:      partner.FullName,
			Role:          partner.Role,
			Skills:        partner.Skills,
		},
		Assignment: assignment,
	}, nil
}

// joinQueue parks the requester and reports their position. A participant who
// is already queued keeps their original waitingSince.
func (s *MatchmakingService) joinQueue(ctx context.Context, participant *models.Participant) (*MatchOutcome, error) {
	since := participant.WaitingSince
	if since == "" {
		enqueued, err := s.Store.Enqueue(ctx, participant.ParticipantID, s.Now().UTC().Format(models.WaitingTimeLayout))
		if err != nil {
			return nil, err
		}
		since = enqueued
	}

	position, err := s.Store.QueuePosition(ctx, participant.Role, since, participant.ParticipantID)
	if err != nil {
		return nil, err
	}

	return &MatchOutcome{
		Status:        models.OutcomeWaiting,
		WaitingSince:  since,
		QueuePosition: position,
	}, nil
}

// produceAssignment runs selection, prompt composition and generation for a
// committed match. The pairing is already durable, so every failure past this
// point degrades instead of propagating.
func (s *MatchmakingService) produceAssignment(ctx context.Context, matchID string, a, b *models.Participant, topic string) *models.Assignment {
	frontend, backend := a, b
	if frontend.Role != models.RoleFrontend {
		frontend, backend = b, a
	}

	assignment := &models.Assignment{
		MatchID:   matchID,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
	}

	selection, err := s.Selection.Select(ctx, frontend, backend)
	if err != nil {
		log.Printf("⚠️ Selection failed for match %s, using fallback assignment: %v", matchID, err)
		assignment.Title, assignment.Description = FallbackAssignment(topic)
	} else {
		prompt := BuildAssignmentPrompt(PromptInput{
			FrontendSkills:   frontend.Skills,
			BackendSkills:    backend.Skills,
			Archetype:        selection.Archetype,
			Theme:            selection.Theme,
			TargetComplexity: selection.TargetComplexity,
			FrontendGoals:    selection.FrontendGoals,
			BackendGoals:     selection.BackendGoals,
		})
		assignment.Title, assignment.Description = s.Generator.GenerateAssignment(ctx, prompt, topic)
		assignment.ArchetypeCode = selection.Archetype.Code
		assignment.ThemeCode = selection.Theme.Code
	}

	if err := s.Store.SaveAssignment(ctx, assignment); err != nil {
		// The match is already committed, the pair still gets their assignment
		log.Printf("❌ Failed to persist assignment for match %s: %v", matchID, err)
	}
	return assignment
}

// CancelWaiting removes the participant from the queue. Idempotent: cancelling
// a participant who is not queued is a no-op.
func (s *MatchmakingService) CancelWaiting(ctx context.Context, participantID string) error {
	return s.Store.CancelWaiting(ctx, participantID)
}

// QueueStatus reports the participant's current waiting state without
// touching it.
func (s *MatchmakingService) QueueStatus(ctx context.Context, participantID string) (*QueueState, error) {
	participant, err := s.Store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	state := &QueueState{ActiveMatchID: participant.ActiveMatchID}
	if participant.WaitingSince == "" {
		return state, nil
	}

	position, err := s.Store.QueuePosition(ctx, participant.Role, participant.WaitingSince, participant.ParticipantID)
	if err != nil {
		return nil, err
	}
	state.Waiting = true
	state.WaitingSince = participant.WaitingSince
	state.QueuePosition = position
	return state, nil
}
