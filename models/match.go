package models

// Match is one pairing of a frontend and a backend participant
type Match struct {
	MatchID           string `dynamodbav:"matchId" json:"matchId"`
	Status            string `dynamodbav:"status" json:"status"`
	CreatedAt         string `dynamodbav:"createdAt" json:"createdAt"`
	CommunicationLink string `dynamodbav:"communicationLink,omitempty" json:"communicationLink,omitempty"`
	CompletedAt       string `dynamodbav:"completedAt,omitempty" json:"completedAt,omitempty"`
	RepoURL           string `dynamodbav:"repoUrl,omitempty" json:"repoUrl,omitempty"`
	Review            string `dynamodbav:"review,omitempty" json:"review,omitempty"`
}

// MatchParticipant links one participant to one match, one row per role
type MatchParticipant struct {
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
	ParticipantID string `dynamodbav:"participantId" json:"participantId"`
	Role          string `dynamodbav:"role" json:"role"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchParticipantsTable is the DynamoDB table name for match membership rows
const MatchParticipantsTable = "MatchParticipants"
