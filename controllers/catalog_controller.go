package controllers

import (
	"net/http"

	"pairup_server/services"
)

// CatalogController serves the archetype and theme catalog
type CatalogController struct {
	Catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

// ListArchetypes returns all active archetypes
func (cc *CatalogController) ListArchetypes(w http.ResponseWriter, r *http.Request) {
	archetypes, err := cc.Catalog.ListArchetypes(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"archetypes": archetypes})
}

// ListThemes returns all active themes
func (cc *CatalogController) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := cc.Catalog.ListThemes(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"themes": themes})
}
