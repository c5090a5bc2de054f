package models

// Participant defines the structure for developer profiles
type Participant struct {
	ParticipantID string      `dynamodbav:"participantId" json:"participantId"`
	FullName      string      `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Role          string      `dynamodbav:"role,omitempty" json:"role,omitempty"`
	Skills        []string    `dynamodbav:"skills,omitempty" json:"skills,omitempty"`
	WaitingSince  string      `dynamodbav:"waitingSince,omitempty" json:"waitingSince,omitempty"`
	WaitingKey    string      `dynamodbav:"waitingKey,omitempty" json:"-"`
	ActiveMatchID string      `dynamodbav:"activeMatchId,omitempty" json:"activeMatchId,omitempty"`
	Preference    *Preference `dynamodbav:"preference,omitempty" json:"preference,omitempty"`
}

// Preference holds the matching preferences a participant stored on their profile.
// Difficulty 0 means no preference.
type Preference struct {
	Difficulty    int      `dynamodbav:"difficulty,omitempty" json:"difficulty,omitempty"`
	ThemeCodes    []string `dynamodbav:"themeCodes,omitempty" json:"themeCodes,omitempty"`
	LearningGoals string   `dynamodbav:"learningGoals,omitempty" json:"learningGoals,omitempty"`
}

// IsWaiting reports whether the participant is currently in the queue
func (p *Participant) IsWaiting() bool {
	return p.WaitingSince != ""
}

// ParticipantsTable is the DynamoDB table name for participant profiles
const ParticipantsTable = "Participants"

// RoleWaitingIndex is the GSI used to list waiting participants of one role
// ordered by waitingKey (waitingSince + "#" + participantId).
const RoleWaitingIndex = "role-waiting-index"
