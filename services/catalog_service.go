package services

import (
	"context"
	"log"

	"pairup_server/models"
)

// CatalogService exposes the archetype/theme catalog the selector draws from
type CatalogService struct {
	Store MatchStore
}

func NewCatalogService(store MatchStore) *CatalogService {
	return &CatalogService{Store: store}
}

func (cs *CatalogService) ListArchetypes(ctx context.Context) ([]models.Archetype, error) {
	return cs.Store.ListActiveArchetypes(ctx)
}

func (cs *CatalogService) ListThemes(ctx context.Context) ([]models.Theme, error) {
	return cs.Store.ListActiveThemes(ctx)
}

// SeedDefaults installs the built-in catalog when the tables are empty, so a
// fresh deployment can match pairs immediately.
func (cs *CatalogService) SeedDefaults(ctx context.Context) error {
	archetypes, err := cs.Store.ListActiveArchetypes(ctx)
	if err != nil {
		return err
	}
	if len(archetypes) == 0 {
		for _, a := range defaultArchetypes() {
			archetype := a
			if err := cs.Store.SaveArchetype(ctx, &archetype); err != nil {
				return err
			}
		}
		log.Printf("🌱 Seeded %d default archetypes", len(defaultArchetypes()))
	}

	themes, err := cs.Store.ListActiveThemes(ctx)
	if err != nil {
		return err
	}
	if len(themes) == 0 {
		for _, t := range defaultThemes() {
			theme := t
			if err := cs.Store.SaveTheme(ctx, &theme); err != nil {
				return err
			}
		}
		log.Printf("🌱 Seeded %d default themes", len(defaultThemes()))
	}

	return nil
}

func defaultArchetypes() []models.Archetype {
	return []models.Archetype{
		{Code: "crud-portal", Structure: "A classic record-management portal: list, detail, create, edit and delete flows over a small set of entities.", MinComplexity: 1, MaxComplexity: 2, Active: true},
		{Code: "realtime-dashboard", Structure: "A live dashboard: the backend aggregates a data stream into metrics, the frontend renders continuously updating panels.", MinComplexity: 2, MaxComplexity: 4, Active: true},
		{Code: "workflow-engine", Structure: "A multi-step workflow: items move through states with transitions, approvals and an audit trail.", MinComplexity: 3, MaxComplexity: 5, Active: true},
		{Code: "booking-system", Structure: "A reservation system: searchable capacity, conflict-free booking, cancellation and a schedule view.", MinComplexity: 2, MaxComplexity: 4, Active: true},
		{Code: "integration-hub", Structure: "An integration layer: the backend normalizes data from several simulated external feeds, the frontend gives one unified view with filtering.", MinComplexity: 4, MaxComplexity: 5, Active: true},
	}
}

func defaultThemes() []models.Theme {
	return []models.Theme{
		{Code: "finance", Domain: "A payment provider is melting down during a regional outage and merchants need visibility now.", Active: true},
		{Code: "health", Domain: "A clinic network is overwhelmed and needs triage coordination across locations.", Active: true},
		{Code: "logistics", Domain: "A shipping company lost its routing system and packages are piling up in depots.", Active: true},
		{Code: "energy", Domain: "A power grid operator is balancing rolling brownouts and needs consumption insight fast.", Active: true},
		{Code: "civic", Domain: "A city's emergency services need a shared picture of incidents during a storm.", Active: true},
	}
}
