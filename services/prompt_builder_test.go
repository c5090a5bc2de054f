package services

import (
	"strings"
	"testing"

	"pairup_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePromptInput() PromptInput {
	return PromptInput{
		FrontendSkills:   []string{"react", "css"},
		BackendSkills:    []string{"go", "postgres"},
		Archetype:        models.Archetype{Code: "crud-portal", Structure: "a form-driven portal over a small data model"},
		Theme:            models.Theme{Code: "finance", Domain: "a community credit union hit by an outage"},
		TargetComplexity: 3,
		FrontendGoals:    "practice optimistic updates",
		BackendGoals:     "learn transactional writes",
	}
}

func TestBuildAssignmentPromptSectionOrder(t *testing.T) {
	prompt := BuildAssignmentPrompt(samplePromptInput())

	sections := []string{
		"crisis-scenario project assignment",
		"Team skills:",
		"Project archetype (crud-portal):",
		"Domain theme (finance):",
		"Target complexity is 3 of 5",
		"Learning goals to weave into the tasks:",
		`Respond with a single JSON object`,
	}

	last := -1
	for _, section := range sections {
		idx := strings.Index(prompt, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestBuildAssignmentPromptSkillsSortedAndDefaulted(t *testing.T) {
	in := samplePromptInput()
	in.FrontendSkills = []string{"typescript", "accessibility", "react"}
	in.BackendSkills = nil

	prompt := BuildAssignmentPrompt(in)

	assert.Contains(t, prompt, "- Frontend: accessibility, react, typescript\n")
	assert.Contains(t, prompt, "- Backend: not specified\n")
}

func TestBuildAssignmentPromptOmitsGoalsWhenUnset(t *testing.T) {
	in := samplePromptInput()
	in.FrontendGoals = ""
	in.BackendGoals = ""

	prompt := BuildAssignmentPrompt(in)

	assert.NotContains(t, prompt, "Learning goals")
}

func TestBuildAssignmentPromptSingleGoalLine(t *testing.T) {
	in := samplePromptInput()
	in.FrontendGoals = ""

	prompt := BuildAssignmentPrompt(in)

	assert.Contains(t, prompt, "Learning goals to weave into the tasks:")
	assert.NotContains(t, prompt, "- Frontend developer:")
	assert.Contains(t, prompt, "- Backend developer: learn transactional writes")
}

func TestComplexityTierBoundaries(t *testing.T) {
	tests := []struct {
		complexity int
		label      string
		minTasks   int
		maxTasks   int
	}{
		{1, tierLowLabel, 3, 5},
		{2, tierLowLabel, 3, 5},
		{3, tierMidLabel, 5, 7},
		{4, tierHighLabel, 7, 10},
		{5, tierHighLabel, 7, 10},
	}

	for _, tt := range tests {
		label, minTasks, maxTasks := complexityTier(tt.complexity)
		assert.Equal(t, tt.label, label, "complexity %d", tt.complexity)
		assert.Equal(t, tt.minTasks, minTasks, "complexity %d", tt.complexity)
		assert.Equal(t, tt.maxTasks, maxTasks, "complexity %d", tt.complexity)
	}
}

func TestBuildAssignmentPromptJSONContract(t *testing.T) {
	prompt := BuildAssignmentPrompt(samplePromptInput())

	for _, field := range []string{`"title"`, `"description"`, `"frontendTasks"`, `"backendTasks"`, `"apiEndpoints"`} {
		assert.Contains(t, prompt, field)
	}
}

func TestBuildReviewPromptEmbedsReadme(t *testing.T) {
	prompt := BuildReviewPrompt("# Rapid Relief Portal\nA portal for outage reports.")

	assert.Contains(t, prompt, "reviewing the README")
	assert.True(t, strings.HasSuffix(prompt, "A portal for outage reports."))
}
