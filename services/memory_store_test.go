package services

import (
	"context"
	"sort"
	"sync"

	"pairup_server/models"
)

// memoryStore is a mutex-guarded MatchStore used by the service tests. It
// honors the same contract as the DynamoDB store: the pairing and completion
// steps are atomic, and a waiter can be claimed exactly once.
type memoryStore struct {
	mu           sync.Mutex
	participants map[string]models.Participant
	matches      map[string]models.Match
	links        map[string][]models.MatchParticipant
	assignments  map[string]models.Assignment
	reviews      map[string]string
	archetypes   []models.Archetype
	themes       []models.Theme
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		participants: make(map[string]models.Participant),
		matches:      make(map[string]models.Match),
		links:        make(map[string][]models.MatchParticipant),
		assignments:  make(map[string]models.Assignment),
		reviews:      make(map[string]string),
	}
}

func (s *memoryStore) GetParticipant(_ context.Context, participantID string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	copied := participant
	return &copied, nil
}

func (s *memoryStore) SaveParticipant(_ context.Context, participant *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants[participant.ParticipantID] = *participant
	return nil
}

func (s *memoryStore) UpdateParticipantRole(_ context.Context, participantID, role string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if participant.ActiveMatchID != "" {
		return nil, ErrAlreadyMatched
	}
	if participant.WaitingSince != "" {
		return nil, ErrRoleChangeWhileQueued
	}

	participant.Role = role
	s.participants[participantID] = participant
	copied := participant
	return &copied, nil
}

func (s *memoryStore) UpdateParticipantPreference(_ context.Context, participantID string, preference *models.Preference) (*models.Participant, error) {
	return s.updateProfile(participantID, func(p *models.Participant) {
		p.Preference = preference
	})
}

func (s *memoryStore) UpdateParticipantSkills(_ context.Context, participantID string, skills []string) (*models.Participant, error) {
	return s.updateProfile(participantID, func(p *models.Participant) {
		p.Skills = skills
	})
}

// updateProfile mutates one profile field under the lock, against the
// current item, never a caller-held snapshot.
func (s *memoryStore) updateProfile(participantID string, mutate func(*models.Participant)) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	mutate(&participant)
	s.participants[participantID] = participant
	copied := participant
	return &copied, nil
}

func (s *memoryStore) PairWithOldestWaiting(_ context.Context, requester *models.Participant, match *models.Match) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Guard against a stale requester snapshot: the current item decides
	stored, ok := s.participants[requester.ParticipantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if stored.ActiveMatchID != "" {
		return nil, ErrAlreadyMatched
	}

	targetRole := models.OppositeRole(requester.Role)

	var waiting []models.Participant
	for _, p := range s.participants {
		if p.Role == targetRole && p.WaitingSince != "" && p.ParticipantID != requester.ParticipantID && p.ActiveMatchID == "" {
			waiting = append(waiting, p)
		}
	}
	if len(waiting) == 0 {
		return nil, ErrNoPartnerWaiting
	}

	sort.Slice(waiting, func(i, j int) bool {
		if waiting[i].WaitingSince != waiting[j].WaitingSince {
			return waiting[i].WaitingSince < waiting[j].WaitingSince
		}
		return waiting[i].ParticipantID < waiting[j].ParticipantID
	})

	partner := waiting[0]
	partner.WaitingSince = ""
	partner.WaitingKey = ""
	partner.ActiveMatchID = match.MatchID
	s.participants[partner.ParticipantID] = partner

	stored.WaitingSince = ""
	stored.WaitingKey = ""
	stored.ActiveMatchID = match.MatchID
	s.participants[stored.ParticipantID] = stored

	s.matches[match.MatchID] = *match
	s.links[match.MatchID] = []models.MatchParticipant{
		{MatchID: match.MatchID, ParticipantID: requester.ParticipantID, Role: requester.Role},
		{MatchID: match.MatchID, ParticipantID: partner.ParticipantID, Role: partner.Role},
	}

	copied := partner
	return &copied, nil
}

func (s *memoryStore) Enqueue(_ context.Context, participantID, since string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[participantID]
	if !ok {
		return "", ErrParticipantNotFound
	}
	if participant.WaitingSince != "" {
		return participant.WaitingSince, nil
	}
	if participant.ActiveMatchID != "" {
		return "", ErrAlreadyMatched
	}

	participant.WaitingSince = since
	participant.WaitingKey = WaitingKey(since, participantID)
	s.participants[participantID] = participant
	return since, nil
}

func (s *memoryStore) CancelWaiting(_ context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[participantID]
	if !ok {
		return nil
	}
	participant.WaitingSince = ""
	participant.WaitingKey = ""
	s.participants[participantID] = participant
	return nil
}

func (s *memoryStore) QueuePosition(_ context.Context, role, waitingSince, participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	myKey := WaitingKey(waitingSince, participantID)
	position := 1
	for _, p := range s.participants {
		if p.Role == role && p.WaitingSince != "" && p.WaitingKey < myKey {
			position++
		}
	}
	return position, nil
}

func (s *memoryStore) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := match
	return &copied, nil
}

func (s *memoryStore) GetMatchParticipants(_ context.Context, matchID string) ([]models.MatchParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.MatchParticipant(nil), s.links[matchID]...), nil
}

func (s *memoryStore) CompleteMatch(_ context.Context, matchID, completedAt, repoURL string, participantIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.matches[matchID]
	if !ok || match.Status != models.MatchStatusActive {
		return ErrConditionFailed
	}

	match.Status = models.MatchStatusCompleted
	match.CompletedAt = completedAt
	match.RepoURL = repoURL
	s.matches[matchID] = match

	for _, participantID := range participantIDs {
		if participant, ok := s.participants[participantID]; ok {
			participant.ActiveMatchID = ""
			s.participants[participantID] = participant
		}
	}
	return nil
}

func (s *memoryStore) SaveReview(_ context.Context, matchID, review string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match, ok := s.matches[matchID]; ok {
		match.Review = review
		s.matches[matchID] = match
	}
	s.reviews[matchID] = review
	return nil
}

func (s *memoryStore) SaveAssignment(_ context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[assignment.MatchID] = *assignment
	return nil
}

func (s *memoryStore) GetAssignment(_ context.Context, matchID string) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[matchID]
	if !ok {
		return nil, nil
	}
	copied := assignment
	return &copied, nil
}

func (s *memoryStore) ListActiveArchetypes(_ context.Context) ([]models.Archetype, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.Archetype
	for _, a := range s.archetypes {
		if a.Active {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *memoryStore) ListActiveThemes(_ context.Context) ([]models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.Theme
	for _, t := range s.themes {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *memoryStore) SaveArchetype(_ context.Context, archetype *models.Archetype) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.archetypes = append(s.archetypes, *archetype)
	return nil
}

func (s *memoryStore) SaveTheme(_ context.Context, theme *models.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes = append(s.themes, *theme)
	return nil
}

// staleReadStore serves one participant from a frozen snapshot while writes
// keep hitting the live store. It simulates a caller acting on a read taken
// before a concurrent pairing committed.
type staleReadStore struct {
	*memoryStore
	stale *models.Participant
}

func (s *staleReadStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	if s.stale != nil && s.stale.ParticipantID == participantID {
		copied := *s.stale
		return &copied, nil
	}
	return s.memoryStore.GetParticipant(ctx, participantID)
}
