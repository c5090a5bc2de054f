package services

import (
	"context"
	"errors"
	"math/rand"

	"pairup_server/models"
)

// DefaultTargetComplexity is used when neither participant stored a
// difficulty preference.
const DefaultTargetComplexity = 2

// SelectionService picks the archetype, theme and target complexity for a
// freshly matched pair from their stored preferences. Randomness is injected
// so selection is deterministic under test.
type SelectionService struct {
	Store MatchStore
	Rand  *rand.Rand
}

func NewSelectionService(store MatchStore, rng *rand.Rand) *SelectionService {
	return &SelectionService{Store: store, Rand: rng}
}

// Selection is the personalization bundle handed to the prompt builder
type Selection struct {
	Archetype        models.Archetype
	Theme            models.Theme
	TargetComplexity int
	FrontendGoals    string
	BackendGoals     string
}

// CalcComplexity merges two difficulty preferences (0 = unset) into the
// target complexity. Two preferences average with round-half-up, a single
// preference wins outright, none falls back to the default.
func CalcComplexity(difficultyA, difficultyB int) int {
	switch {
	case difficultyA > 0 && difficultyB > 0:
		// integer round-half-up of the mean: (2+3)/2 = 2.5 -> 3
		return (difficultyA + difficultyB + 1) / 2
	case difficultyA > 0:
		return difficultyA
	case difficultyB > 0:
		return difficultyB
	default:
		return DefaultTargetComplexity
	}
}

// Select resolves the full selection for a frontend/backend pair
func (s *SelectionService) Select(ctx context.Context, frontend, backend *models.Participant) (*Selection, error) {
	target := CalcComplexity(difficultyOf(frontend), difficultyOf(backend))

	archetypes, err := s.Store.ListActiveArchetypes(ctx)
	if err != nil {
		return nil, err
	}
	archetype, err := s.pickArchetype(archetypes, target)
	if err != nil {
		return nil, err
	}

	themes, err := s.Store.ListActiveThemes(ctx)
	if err != nil {
		return nil, err
	}
	theme, err := s.pickTheme(themes, themeCodesOf(frontend), themeCodesOf(backend))
	if err != nil {
		return nil, err
	}

	return &Selection{
		Archetype:        archetype,
		Theme:            theme,
		TargetComplexity: target,
		FrontendGoals:    learningGoalsOf(frontend),
		BackendGoals:     learningGoalsOf(backend),
	}, nil
}

// pickArchetype narrows the active set by exact range match, then by ±1
// overlap, then gives up narrowing and picks from everything active.
func (s *SelectionService) pickArchetype(active []models.Archetype, target int) (models.Archetype, error) {
	if len(active) == 0 {
		return models.Archetype{}, errors.New("no active archetypes configured")
	}

	var exact []models.Archetype
	for _, a := range active {
		if a.Contains(target) {
			exact = append(exact, a)
		}
	}
	if len(exact) > 0 {
		return exact[s.Rand.Intn(len(exact))], nil
	}

	var widened []models.Archetype
	for _, a := range active {
		if a.Overlaps(target-1, target+1) {
			widened = append(widened, a)
		}
	}
	if len(widened) > 0 {
		return widened[s.Rand.Intn(len(widened))], nil
	}

	return active[s.Rand.Intn(len(active))], nil
}

// pickTheme prefers themes both participants asked for, then themes either
// asked for, then anything active.
func (s *SelectionService) pickTheme(active []models.Theme, codesA, codesB []string) (models.Theme, error) {
	if len(active) == 0 {
		return models.Theme{}, errors.New("no active themes configured")
	}

	setA := toSet(codesA)
	setB := toSet(codesB)

	var intersection, union []models.Theme
	for _, t := range active {
		inA := setA[t.Code]
		inB := setB[t.Code]
		if inA && inB {
			intersection = append(intersection, t)
		}
		if inA || inB {
			union = append(union, t)
		}
	}

	if len(intersection) > 0 {
		return intersection[s.Rand.Intn(len(intersection))], nil
	}
	if len(union) > 0 {
		return union[s.Rand.Intn(len(union))], nil
	}
	return active[s.Rand.Intn(len(active))], nil
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

func difficultyOf(p *models.Participant) int {
	if p.Preference == nil {
		return 0
	}
	return p.Preference.Difficulty
}

func themeCodesOf(p *models.Participant) []string {
	if p.Preference == nil {
		return nil
	}
	return p.Preference.ThemeCodes
}

func learningGoalsOf(p *models.Participant) string {
	if p.Preference == nil {
		return ""
	}
	return p.Preference.LearningGoals
}
