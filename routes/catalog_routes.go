package routes

import (
	"pairup_server/controllers"
	"pairup_server/services"

	"github.com/gorilla/mux"
)

// RegisterCatalogRoutes sets up read-only catalog routes under /api/catalog
func RegisterCatalogRoutes(r *mux.Router, catalog *services.CatalogService) {
	controller := controllers.NewCatalogController(catalog)

	catalogRouter := r.PathPrefix("/api/catalog").Subrouter()

	catalogRouter.HandleFunc("/archetypes", controller.ListArchetypes).Methods("GET")
	catalogRouter.HandleFunc("/themes", controller.ListThemes).Methods("GET")
}
