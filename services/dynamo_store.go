package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pairup_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// claimQueryLimit bounds how many queue candidates one pairing attempt inspects
const claimQueryLimit = 5

// claimRetries bounds how many times a pairing attempt re-queries the queue
// after losing every candidate to concurrent claimers.
const claimRetries = 3

// DynamoMatchStore implements MatchStore on DynamoDB. The pairing and
// completion steps use TransactWriteItems with condition expressions so the
// queue claim is a single conditional write, never read-then-write.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func NewDynamoMatchStore(dynamo *DynamoService) *DynamoMatchStore {
	return &DynamoMatchStore{Dynamo: dynamo}
}

func participantKey(participantID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"participantId": &types.AttributeValueMemberS{Value: participantID},
	}
}

func matchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

// WaitingKey builds the GSI sort key that orders the queue by
// (waitingSince, participantId).
func WaitingKey(waitingSince, participantID string) string {
	return waitingSince + "#" + participantID
}

func (s *DynamoMatchStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ParticipantsTable, participantKey(participantID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrParticipantNotFound
	}
	return unmarshalParticipant(item)
}

func (s *DynamoMatchStore) SaveParticipant(ctx context.Context, participant *models.Participant) error {
	return s.Dynamo.PutItem(ctx, models.ParticipantsTable, participant)
}

// UpdateParticipantRole sets only the role attribute, conditional on the
// participant being neither queued nor matched. Whole-item writes are off
// limits here: they could resurrect queue state the matcher just cleared.
func (s *DynamoMatchStore) UpdateParticipantRole(ctx context.Context, participantID, role string) (*models.Participant, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
		"SET #r = :role",
		"attribute_exists(participantId) AND attribute_not_exists(waitingSince) AND attribute_not_exists(activeMatchId)",
		participantKey(participantID),
		map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: role},
		},
		map[string]string{"#r": "role"},
	)
	if errors.Is(err, ErrConditionFailed) {
		existing, getErr := s.GetParticipant(ctx, participantID)
		if getErr != nil {
			return nil, getErr
		}
		if existing.ActiveMatchID != "" {
			return nil, ErrAlreadyMatched
		}
		return nil, ErrRoleChangeWhileQueued
	}
	if err != nil {
		return nil, err
	}
	return unmarshalParticipant(attrs)
}

func (s *DynamoMatchStore) UpdateParticipantPreference(ctx context.Context, participantID string, preference *models.Preference) (*models.Participant, error) {
	prefValue, err := attributevalue.Marshal(preference)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preference: %w", err)
	}
	return s.updateProfileAttribute(ctx, participantID, "SET preference = :v", prefValue)
}

func (s *DynamoMatchStore) UpdateParticipantSkills(ctx context.Context, participantID string, skills []string) (*models.Participant, error) {
	skillsValue, err := attributevalue.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	return s.updateProfileAttribute(ctx, participantID, "SET skills = :v", skillsValue)
}

// updateProfileAttribute applies a single SET to one profile attribute.
// Queue and match attributes are never part of the expression, so a pairing
// committed concurrently can not be clobbered by a profile update.
func (s *DynamoMatchStore) updateProfileAttribute(ctx context.Context, participantID, updateExpression string, value types.AttributeValue) (*models.Participant, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
		updateExpression,
		"attribute_exists(participantId)",
		participantKey(participantID),
		map[string]types.AttributeValue{":v": value},
		nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalParticipant(attrs)
}

func unmarshalParticipant(attrs map[string]types.AttributeValue) (*models.Participant, error) {
	var participant models.Participant
	if err := attributevalue.UnmarshalMap(attrs, &participant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}
	return &participant, nil
}

// PairWithOldestWaiting claims the head of the opposite-role queue inside a
// single transaction: the partner's waiting flag is removed under an
// attribute_exists condition, so two concurrent requesters can never both
// claim the same waiter.
func (s *DynamoMatchStore) PairWithOldestWaiting(ctx context.Context, requester *models.Participant, match *models.Match) (*models.Participant, error) {
	targetRole := models.OppositeRole(requester.Role)

	for attempt := 0; attempt < claimRetries; attempt++ {
		candidates, err := s.queueCandidates(ctx, targetRole, requester.ParticipantID)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, ErrNoPartnerWaiting
		}

		for i := range candidates {
			partner := &candidates[i]
			err := s.commitPairing(ctx, requester, partner, match)
			if errors.Is(err, ErrConditionFailed) {
				// Lost the race for this waiter, try the next one
				log.Printf("claim lost for waiter %s, trying next candidate", partner.ParticipantID)
				continue
			}
			if err != nil {
				return nil, err
			}

			partner.WaitingSince = ""
			partner.WaitingKey = ""
			partner.ActiveMatchID = match.MatchID
			return partner, nil
		}
	}

	// Every observed candidate was claimed or cancelled concurrently
	return nil, ErrNoPartnerWaiting
}

// queueCandidates returns the oldest waiters of one role in queue order
func (s *DynamoMatchStore) queueCandidates(ctx context.Context, role, excludeID string) ([]models.Participant, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ParticipantsTable, models.RoleWaitingIndex,
		"#r = :role",
		map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: role},
		},
		map[string]string{"#r": "role"},
		claimQueryLimit,
	)
	if err != nil {
		return nil, err
	}

	var waiters []models.Participant
	if err := attributevalue.UnmarshalListOfMaps(items, &waiters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue candidates: %w", err)
	}

	candidates := waiters[:0]
	for _, w := range waiters {
		if w.ParticipantID != excludeID {
			candidates = append(candidates, w)
		}
	}
	return candidates, nil
}

// commitPairing performs the indivisible pairing step: claim the partner,
// release the requester from the queue, and record the match with both
// membership rows. Any condition failure aborts the whole transaction.
func (s *DynamoMatchStore) commitPairing(ctx context.Context, requester, partner *models.Participant, match *models.Match) error {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	links := []models.MatchParticipant{
		{MatchID: match.MatchID, ParticipantID: requester.ParticipantID, Role: requester.Role},
		{MatchID: match.MatchID, ParticipantID: partner.ParticipantID, Role: partner.Role},
	}
	linkItems := make([]map[string]types.AttributeValue, len(links))
	for i, link := range links {
		item, err := attributevalue.MarshalMap(link)
		if err != nil {
			return fmt.Errorf("failed to marshal match participant: %w", err)
		}
		linkItems[i] = item
	}

	matchValue := &types.AttributeValueMemberS{Value: match.MatchID}

	items := []types.TransactWriteItem{
		{
			// The claim: only succeeds while the partner is still waiting and free
			Update: &types.Update{
				TableName:           aws.String(models.ParticipantsTable),
				Key:                 participantKey(partner.ParticipantID),
				UpdateExpression:    aws.String("REMOVE waitingSince, waitingKey SET activeMatchId = :match"),
				ConditionExpression: aws.String("attribute_exists(waitingSince) AND attribute_not_exists(activeMatchId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":match": matchValue,
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.ParticipantsTable),
				Key:                 participantKey(requester.ParticipantID),
				UpdateExpression:    aws.String("REMOVE waitingSince, waitingKey SET activeMatchId = :match"),
				ConditionExpression: aws.String("attribute_not_exists(activeMatchId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":match": matchValue,
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.MatchesTable),
				Item:                matchItem,
				ConditionExpression: aws.String("attribute_not_exists(matchId)"),
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(models.MatchParticipantsTable),
				Item:      linkItems[0],
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(models.MatchParticipantsTable),
				Item:      linkItems[1],
			},
		},
	}

	err = s.Dynamo.TransactWriteItems(ctx, items)

	// Item 1 guards the requester: its condition only fails when the
	// requester picked up an active match since the precondition read.
	var condErr *TransactionConditionError
	if errors.As(err, &condErr) {
		if condErr.FailedIndex(1) {
			return ErrAlreadyMatched
		}
		return ErrConditionFailed
	}
	return err
}

func (s *DynamoMatchStore) Enqueue(ctx context.Context, participantID, since string) (string, error) {
	for attempt := 0; attempt < claimRetries; attempt++ {
		_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
			"SET waitingSince = :since, waitingKey = :wkey",
			"attribute_exists(participantId) AND attribute_not_exists(waitingSince) AND attribute_not_exists(activeMatchId)",
			participantKey(participantID),
			map[string]types.AttributeValue{
				":since": &types.AttributeValueMemberS{Value: since},
				":wkey":  &types.AttributeValueMemberS{Value: WaitingKey(since, participantID)},
			}, nil,
		)
		if err == nil {
			return since, nil
		}
		if !errors.Is(err, ErrConditionFailed) {
			return "", err
		}

		existing, getErr := s.GetParticipant(ctx, participantID)
		if getErr != nil {
			return "", getErr
		}
		if existing.WaitingSince != "" {
			// Already queued, keep the original position
			return existing.WaitingSince, nil
		}
		if existing.ActiveMatchID != "" {
			return "", ErrAlreadyMatched
		}
		// The observed state changed between the write and the read, retry
	}
	return "", ErrConditionFailed
}

func (s *DynamoMatchStore) CancelWaiting(ctx context.Context, participantID string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
		"REMOVE waitingSince, waitingKey",
		"attribute_exists(waitingSince)",
		participantKey(participantID),
		nil, nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		return nil
	}
	return err
}

func (s *DynamoMatchStore) QueuePosition(ctx context.Context, role, waitingSince, participantID string) (int, error) {
	ahead, err := s.Dynamo.QueryCountWithIndex(ctx, models.ParticipantsTable, models.RoleWaitingIndex,
		"#r = :role AND waitingKey < :wkey",
		map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: role},
			":wkey": &types.AttributeValueMemberS{Value: WaitingKey(waitingSince, participantID)},
		},
		map[string]string{"#r": "role"},
	)
	if err != nil {
		return 0, err
	}
	return ahead + 1, nil
}

func (s *DynamoMatchStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(matchID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMatchNotFound
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

func (s *DynamoMatchStore) GetMatchParticipants(ctx context.Context, matchID string) ([]models.MatchParticipant, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MatchParticipantsTable,
		"matchId = :match",
		map[string]types.AttributeValue{
			":match": &types.AttributeValueMemberS{Value: matchID},
		},
		nil, 10,
	)
	if err != nil {
		return nil, err
	}

	var links []models.MatchParticipant
	if err := attributevalue.UnmarshalListOfMaps(items, &links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match participants: %w", err)
	}
	return links, nil
}

// CompleteMatch transitions the match to completed and releases both
// participants in one transaction, conditional on the match still being active.
func (s *DynamoMatchStore) CompleteMatch(ctx context.Context, matchID, completedAt, repoURL string, participantIDs []string) error {
	updateExpr := "SET #s = :completed, completedAt = :at"
	values := map[string]types.AttributeValue{
		":completed": &types.AttributeValueMemberS{Value: models.MatchStatusCompleted},
		":active":    &types.AttributeValueMemberS{Value: models.MatchStatusActive},
		":at":        &types.AttributeValueMemberS{Value: completedAt},
	}
	if repoURL != "" {
		updateExpr += ", repoUrl = :repo"
		values[":repo"] = &types.AttributeValueMemberS{Value: repoURL}
	}

	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:                 aws.String(models.MatchesTable),
				Key:                       matchKey(matchID),
				UpdateExpression:          aws.String(updateExpr),
				ConditionExpression:       aws.String("#s = :active"),
				ExpressionAttributeNames:  map[string]string{"#s": "status"},
				ExpressionAttributeValues: values,
			},
		},
	}
	for _, participantID := range participantIDs {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:        aws.String(models.ParticipantsTable),
				Key:              participantKey(participantID),
				UpdateExpression: aws.String("REMOVE activeMatchId"),
			},
		})
	}

	return s.Dynamo.TransactWriteItems(ctx, items)
}

func (s *DynamoMatchStore) SaveReview(ctx context.Context, matchID, review string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable,
		"SET review = :review",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":review": &types.AttributeValueMemberS{Value: review},
		}, nil,
	)
	return err
}

func (s *DynamoMatchStore) SaveAssignment(ctx context.Context, assignment *models.Assignment) error {
	return s.Dynamo.PutItem(ctx, models.AssignmentsTable, assignment)
}

func (s *DynamoMatchStore) GetAssignment(ctx context.Context, matchID string) (*models.Assignment, error) {
	item, err := s.Dynamo.GetItem(ctx, models.AssignmentsTable, matchKey(matchID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var assignment models.Assignment
	if err := attributevalue.UnmarshalMap(item, &assignment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}
	return &assignment, nil
}

func (s *DynamoMatchStore) ListActiveArchetypes(ctx context.Context) ([]models.Archetype, error) {
	var all []models.Archetype
	if err := s.Dynamo.ScanAll(ctx, models.ArchetypesTable, &all); err != nil {
		return nil, err
	}

	active := all[:0]
	for _, a := range all {
		if a.Active {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *DynamoMatchStore) ListActiveThemes(ctx context.Context) ([]models.Theme, error) {
	var all []models.Theme
	if err := s.Dynamo.ScanAll(ctx, models.ThemesTable, &all); err != nil {
		return nil, err
	}

	active := all[:0]
	for _, t := range all {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *DynamoMatchStore) SaveArchetype(ctx context.Context, archetype *models.Archetype) error {
	return s.Dynamo.PutItem(ctx, models.ArchetypesTable, archetype)
}

func (s *DynamoMatchStore) SaveTheme(ctx context.Context, theme *models.Theme) error {
	return s.Dynamo.PutItem(ctx, models.ThemesTable, theme)
}
