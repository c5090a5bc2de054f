package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pairup_server/models"
)

// ReadmeFetcher supplies README text for a repository URL
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, repoURL string) (string, error)
}

// ReviewGenerator produces a post-completion review for a composed prompt
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, prompt string) (string, error)
}

// LifecycleService transitions matches out of the active state and optionally
// produces a delivery review for the pair's repository.
type LifecycleService struct {
	Store   MatchStore
	Readmes ReadmeFetcher
	Reviews ReviewGenerator
	Now     func() time.Time
}

func NewLifecycleService(store MatchStore, readmes ReadmeFetcher, reviews ReviewGenerator) *LifecycleService {
	return &LifecycleService{
		Store:   store,
		Readmes: readmes,
		Reviews: reviews,
		Now:     time.Now,
	}
}

// CompletionResult is returned to the participant who completed the match
type CompletionResult struct {
	Status      string `json:"status"`
	MatchID     string `json:"matchId"`
	CompletedAt string `json:"completedAt"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Review      string `json:"review,omitempty"`
}

// MatchDetail is the full read model of one match
type MatchDetail struct {
	Match        *models.Match             `json:"match"`
	Participants []models.MatchParticipant `json:"participants"`
	Assignment   *models.Assignment        `json:"assignment,omitempty"`
}

// Complete marks an active match as completed. Only a linked participant may
// complete it. When a repo URL is supplied, a review is attempted afterwards;
// review failures never undo or fail the completion.
func (s *LifecycleService) Complete(ctx context.Context, matchID, participantID, repoURL string) (*CompletionResult, error) {
	match, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusActive {
		return nil, ErrMatchNotActive
	}

	links, err := s.Store.GetMatchParticipants(ctx, matchID)
	if err != nil {
		return nil, err
	}
	participantIDs := make([]string, 0, len(links))
	isMember := false
	for _, link := range links {
		participantIDs = append(participantIDs, link.ParticipantID)
		if link.ParticipantID == participantID {
			isMember = true
		}
	}
	if !isMember {
		return nil, ErrNotMatchParticipant
	}

	completedAt := s.Now().UTC().Format(time.RFC3339)
	err = s.Store.CompleteMatch(ctx, matchID, completedAt, repoURL, participantIDs)
	if errors.Is(err, ErrConditionFailed) {
		// Someone completed it between our read and the write
		return nil, ErrMatchNotActive
	}
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Match %s completed by %s", matchID, participantID)

	result := &CompletionResult{
		Status:      models.MatchStatusCompleted,
		MatchID:     matchID,
		CompletedAt: completedAt,
		RepoURL:     repoURL,
	}
	if repoURL != "" {
		result.Review = s.tryReview(ctx, matchID, repoURL)
	}
	return result, nil
}

// tryReview is best-effort: any failure is logged and swallowed
func (s *LifecycleService) tryReview(ctx context.Context, matchID, repoURL string) string {
	if s.Readmes == nil || s.Reviews == nil {
		return ""
	}

	readme, err := s.Readmes.FetchReadme(ctx, repoURL)
	if err != nil {
		log.Printf("⚠️ Skipping review for match %s, README fetch failed: %v", matchID, err)
		return ""
	}

	review, err := s.Reviews.GenerateReview(ctx, BuildReviewPrompt(readme))
	if err != nil {
		log.Printf("⚠️ Skipping review for match %s, generation failed: %v", matchID, err)
		return ""
	}

	if err := s.Store.SaveReview(ctx, matchID, review); err != nil {
		log.Printf("❌ Failed to persist review for match %s: %v", matchID, err)
	}
	return review
}

// GetMatch returns a match with its participants and assignment
func (s *LifecycleService) GetMatch(ctx context.Context, matchID string) (*MatchDetail, error) {
	match, err := s.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	links, err := s.Store.GetMatchParticipants(ctx, matchID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.Store.GetAssignment(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &MatchDetail{
		Match:        match,
		Participants: links,
		Assignment:   assignment,
	}, nil
}
