package models

// Archetype is a reusable structural pattern for generated assignments
// (e.g. "realtime dashboard", "workflow engine").
type Archetype struct {
	Code          string `dynamodbav:"code" json:"code"`
	Structure     string `dynamodbav:"structure" json:"structure"`
	MinComplexity int    `dynamodbav:"minComplexity" json:"minComplexity"`
	MaxComplexity int    `dynamodbav:"maxComplexity" json:"maxComplexity"`
	Active        bool   `dynamodbav:"active" json:"active"`
}

// Contains reports whether the archetype's complexity range covers the target
func (a Archetype) Contains(complexity int) bool {
	return a.MinComplexity <= complexity && complexity <= a.MaxComplexity
}

// Overlaps reports whether the archetype's range intersects [lo, hi]
func (a Archetype) Overlaps(lo, hi int) bool {
	return a.MinComplexity <= hi && lo <= a.MaxComplexity
}

// Theme is a domain flavor applied to generated assignments
// (e.g. "finance", "health", "logistics").
type Theme struct {
	Code   string `dynamodbav:"code" json:"code"`
	Domain string `dynamodbav:"domain" json:"domain"`
	Active bool   `dynamodbav:"active" json:"active"`
}

// ArchetypesTable is the DynamoDB table name for assignment archetypes
const ArchetypesTable = "Archetypes"

// ThemesTable is the DynamoDB table name for assignment themes
const ThemesTable = "Themes"
