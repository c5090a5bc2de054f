package services

import (
	"context"
	"math/rand"
	"testing"

	"pairup_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcComplexity(t *testing.T) {
	tests := []struct {
		name        string
		difficultyA int
		difficultyB int
		want        int
	}{
		{"rounds half up", 2, 3, 3},
		{"equal preferences", 1, 1, 1},
		{"neither set uses default", 0, 0, 2},
		{"only first set", 4, 0, 4},
		{"only second set", 0, 5, 5},
		{"high half rounds up", 4, 5, 5},
		{"wide spread rounds up", 2, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcComplexity(tt.difficultyA, tt.difficultyB))
		})
	}
}

func seededSelection(store MatchStore) *SelectionService {
	return NewSelectionService(store, rand.New(rand.NewSource(42)))
}

func participantWithPrefs(id, role string, difficulty int, themes []string, goals string) *models.Participant {
	return &models.Participant{
		ParticipantID: id,
		Role:          role,
		Preference: &models.Preference{
			Difficulty:    difficulty,
			ThemeCodes:    themes,
			LearningGoals: goals,
		},
	}
}

func TestSelectArchetypeExactRange(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "in-range", MinComplexity: 2, MaxComplexity: 4, Active: true})
	store.SaveArchetype(ctx, &models.Archetype{Code: "too-hard", MinComplexity: 5, MaxComplexity: 5, Active: true})
	store.SaveArchetype(ctx, &models.Archetype{Code: "inactive", MinComplexity: 1, MaxComplexity: 5, Active: false})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 3, nil, "")
	backend := participantWithPrefs("b1", models.RoleBackend, 3, nil, "")

	// Only one archetype covers complexity 3, so every pick lands on it
	for i := 0; i < 10; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		assert.Equal(t, "in-range", result.Archetype.Code)
		assert.Equal(t, 3, result.TargetComplexity)
	}
}

func TestSelectArchetypeWidensRange(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	// Nothing covers 3 exactly, but [4,5] overlaps the widened [2,4]
	store.SaveArchetype(ctx, &models.Archetype{Code: "near-miss", MinComplexity: 4, MaxComplexity: 5, Active: true})
	store.SaveArchetype(ctx, &models.Archetype{Code: "far-off", MinComplexity: 1, MaxComplexity: 1, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 3, nil, "")
	backend := participantWithPrefs("b1", models.RoleBackend, 3, nil, "")

	// far-off [1,1] misses even the widened [2,4], so only near-miss qualifies
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		seen[result.Archetype.Code] = true
	}
	assert.Equal(t, map[string]bool{"near-miss": true}, seen)
}

func TestSelectArchetypeFallsBackToFullActiveSet(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "low", MinComplexity: 1, MaxComplexity: 1, Active: true})
	store.SaveArchetype(ctx, &models.Archetype{Code: "high", MinComplexity: 5, MaxComplexity: 5, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 3, nil, "")
	backend := participantWithPrefs("b1", models.RoleBackend, 3, nil, "")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		seen[result.Archetype.Code] = true
	}
	// Neither range covers 3 even widened, so both actives stay eligible
	assert.True(t, seen["low"])
	assert.True(t, seen["high"])
}

func TestSelectThemeIntersectionWins(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "any", MinComplexity: 1, MaxComplexity: 5, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "health", Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "civic", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 0, []string{"finance", "health"}, "")
	backend := participantWithPrefs("b1", models.RoleBackend, 0, []string{"finance"}, "")

	// Intersection is {finance}: union and full-catalog fallbacks must never fire
	for i := 0; i < 30; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		assert.Equal(t, "finance", result.Theme.Code)
	}
}

func TestSelectThemeUnionFallback(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "any", MinComplexity: 1, MaxComplexity: 5, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "health", Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "civic", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 0, []string{"finance"}, "")
	backend := participantWithPrefs("b1", models.RoleBackend, 0, []string{"health"}, "")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		seen[result.Theme.Code] = true
	}
	assert.True(t, seen["finance"])
	assert.True(t, seen["health"])
	assert.False(t, seen["civic"])
}

func TestSelectThemeCatalogFallback(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "any", MinComplexity: 1, MaxComplexity: 5, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "health", Active: true})

	selection := seededSelection(store)
	// No stored preferences at all
	frontend := &models.Participant{ParticipantID: "f1", Role: models.RoleFrontend}
	backend := &models.Participant{ParticipantID: "b1", Role: models.RoleBackend}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		result, err := selection.Select(ctx, frontend, backend)
		require.NoError(t, err)
		seen[result.Theme.Code] = true
		assert.Equal(t, DefaultTargetComplexity, result.TargetComplexity)
	}
	assert.True(t, seen["finance"])
	assert.True(t, seen["health"])
}

func TestSelectCarriesLearningGoals(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	store.SaveArchetype(ctx, &models.Archetype{Code: "any", MinComplexity: 1, MaxComplexity: 5, Active: true})
	store.SaveTheme(ctx, &models.Theme{Code: "finance", Active: true})

	selection := seededSelection(store)
	frontend := participantWithPrefs("f1", models.RoleFrontend, 2, nil, "get better at state management")
	backend := participantWithPrefs("b1", models.RoleBackend, 2, nil, "")

	result, err := selection.Select(ctx, frontend, backend)
	require.NoError(t, err)
	assert.Equal(t, "get better at state management", result.FrontendGoals)
	assert.Empty(t, result.BackendGoals)
}
