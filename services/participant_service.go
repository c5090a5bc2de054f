package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pairup_server/models"
)

// ParticipantService manages developer profiles: the identity collaborator
// resolves who the caller is, this service owns what their profile says.
type ParticipantService struct {
	Store MatchStore
}

func NewParticipantService(store MatchStore) *ParticipantService {
	return &ParticipantService{Store: store}
}

// AddParticipant registers a new profile
func (ps *ParticipantService) AddParticipant(ctx context.Context, participant models.Participant) (*models.Participant, error) {
	if participant.ParticipantID == "" {
		return nil, errors.New("participantId is required")
	}
	if participant.Role != "" && models.OppositeRole(participant.Role) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, participant.Role)
	}

	// Queue and match state is owned by the matcher, never set on create
	participant.WaitingSince = ""
	participant.WaitingKey = ""
	participant.ActiveMatchID = ""

	if err := ps.Store.SaveParticipant(ctx, &participant); err != nil {
		return nil, err
	}
	log.Printf("✅ Participant registered: %s (%s)", participant.ParticipantID, participant.Role)
	return &participant, nil
}

// GetParticipant retrieves a profile by ID
func (ps *ParticipantService) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	return ps.Store.GetParticipant(ctx, participantID)
}

// SetRole selects the participant's role. Changing roles while queued or
// matched would corrupt the pairing invariants; the store enforces both
// guards in the same conditional write that sets the role.
func (ps *ParticipantService) SetRole(ctx context.Context, participantID, role string) (*models.Participant, error) {
	if models.OppositeRole(role) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	return ps.Store.UpdateParticipantRole(ctx, participantID, role)
}

// SetPreference stores the participant's matching preferences. Difficulty 0
// means unset.
func (ps *ParticipantService) SetPreference(ctx context.Context, participantID string, preference models.Preference) (*models.Participant, error) {
	if preference.Difficulty < 0 || preference.Difficulty > 5 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDifficulty, preference.Difficulty)
	}
	return ps.Store.UpdateParticipantPreference(ctx, participantID, &preference)
}

// SetSkills replaces the participant's skill set
func (ps *ParticipantService) SetSkills(ctx context.Context, participantID string, skills []string) (*models.Participant, error) {
	return ps.Store.UpdateParticipantSkills(ctx, participantID, skills)
}
