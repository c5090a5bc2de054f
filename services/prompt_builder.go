package services

import (
	"fmt"
	"sort"
	"strings"

	"pairup_server/models"
)

// PromptInput carries everything the assignment prompt is assembled from
type PromptInput struct {
	FrontendSkills   []string
	BackendSkills    []string
	Archetype        models.Archetype
	Theme            models.Theme
	TargetComplexity int
	FrontendGoals    string
	BackendGoals     string
}

// Complexity tiers map the 1-5 target onto human task-count guidance
const (
	tierLowLabel  = "a foundational starter build"
	tierMidLabel  = "a complete feature slice"
	tierHighLabel = "a production-hardened system"
)

// complexityTier returns the tier label and per-role task-count range for a
// target complexity.
func complexityTier(complexity int) (string, int, int) {
	switch {
	case complexity <= 2:
		return tierLowLabel, 3, 5
	case complexity == 3:
		return tierMidLabel, 5, 7
	default:
		return tierHighLabel, 7, 10
	}
}

// BuildAssignmentPrompt assembles the generation prompt from its independent
// sections in fixed order. Pure string work, no I/O.
func BuildAssignmentPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are generating a crisis-scenario project assignment for a two-person team: ")
	b.WriteString("one frontend developer and one backend developer who were just paired. ")
	b.WriteString("The assignment must give both roles meaningful, coordinated work.\n\n")

	b.WriteString("Team skills:\n")
	b.WriteString("- Frontend: " + joinSkills(in.FrontendSkills) + "\n")
	b.WriteString("- Backend: " + joinSkills(in.BackendSkills) + "\n\n")

	b.WriteString("Project archetype (" + in.Archetype.Code + "): " + in.Archetype.Structure + "\n\n")

	b.WriteString("Domain theme (" + in.Theme.Code + "): " + in.Theme.Domain + "\n\n")

	label, minTasks, maxTasks := complexityTier(in.TargetComplexity)
	b.WriteString(fmt.Sprintf("Target complexity is %d of 5. Scope the assignment as %s, with %d to %d tasks per role.\n\n",
		in.TargetComplexity, label, minTasks, maxTasks))

	if goals := learningGoalsSection(in.FrontendGoals, in.BackendGoals); goals != "" {
		b.WriteString(goals)
	}

	b.WriteString("Respond with a single JSON object and nothing else, using exactly these fields:\n")
	b.WriteString(`{"title": string, "description": string, "frontendTasks": [string], "backendTasks": [string], ` +
		`"apiEndpoints": [{"method": string, "path": string, "description": string}]}` + "\n")

	return b.String()
}

// learningGoalsSection is omitted entirely when neither participant stated goals
func learningGoalsSection(frontendGoals, backendGoals string) string {
	if frontendGoals == "" && backendGoals == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("Learning goals to weave into the tasks:\n")
	if frontendGoals != "" {
		b.WriteString("- Frontend developer: " + frontendGoals + "\n")
	}
	if backendGoals != "" {
		b.WriteString("- Backend developer: " + backendGoals + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// joinSkills renders a skill set in stable sorted order
func joinSkills(skills []string) string {
	if len(skills) == 0 {
		return "not specified"
	}
	sorted := make([]string, len(skills))
	copy(sorted, skills)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

// BuildReviewPrompt assembles the post-completion review prompt from a
// repository README.
func BuildReviewPrompt(readme string) string {
	var b strings.Builder
	b.WriteString("You are reviewing the README of a project a frontend/backend pair just delivered. ")
	b.WriteString("Write a short, encouraging review: two or three sentences on what the project does well ")
	b.WriteString("and one concrete suggestion for improvement. Plain text only.\n\n")
	b.WriteString("README:\n")
	b.WriteString(readme)
	return b.String()
}
