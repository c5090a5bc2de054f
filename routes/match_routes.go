package routes

import (
	"pairup_server/controllers"
	"pairup_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for matchmaking and match lifecycle under /api/match
func RegisterMatchRoutes(r *mux.Router, matchmaking *services.MatchmakingService, lifecycle *services.LifecycleService) {
	controller := controllers.NewMatchController(matchmaking, lifecycle)

	matchRouter := r.PathPrefix("/api/match").Subrouter()

	matchRouter.HandleFunc("/request", controller.RequestMatch).Methods("POST")
	matchRouter.HandleFunc("/cancel", controller.CancelWaiting).Methods("POST")
	matchRouter.HandleFunc("/queue", controller.QueueStatus).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/complete", controller.Complete).Methods("POST")
	matchRouter.HandleFunc("/{matchId}", controller.GetMatch).Methods("GET")
}
