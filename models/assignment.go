package models

// Assignment is the stored work description produced for a matched pair
type Assignment struct {
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
	Title         string `dynamodbav:"title" json:"title"`
	Description   string `dynamodbav:"description" json:"description"`
	ArchetypeCode string `dynamodbav:"archetypeCode,omitempty" json:"archetypeCode,omitempty"`
	ThemeCode     string `dynamodbav:"themeCode,omitempty" json:"themeCode,omitempty"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// APIEndpoint is one entry of the endpoint contract the generator returns
type APIEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// GenerationReply is the structured JSON document expected from the
// text-generation service.
type GenerationReply struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	FrontendTasks []string      `json:"frontendTasks"`
	BackendTasks  []string      `json:"backendTasks"`
	APIEndpoints  []APIEndpoint `json:"apiEndpoints"`
}

// AssignmentsTable is the DynamoDB table name for generated assignments
const AssignmentsTable = "Assignments"
