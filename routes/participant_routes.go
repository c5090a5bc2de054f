package routes

import (
	"pairup_server/controllers"
	"pairup_server/services"

	"github.com/gorilla/mux"
)

// RegisterParticipantRoutes sets up routes for participant profiles under /api/participants
func RegisterParticipantRoutes(r *mux.Router, participants *services.ParticipantService) {
	controller := controllers.NewParticipantController(participants)

	participantRouter := r.PathPrefix("/api/participants").Subrouter()

	participantRouter.HandleFunc("", controller.CreateParticipant).Methods("POST")
	participantRouter.HandleFunc("/{participantId}", controller.GetParticipant).Methods("GET")
	participantRouter.HandleFunc("/{participantId}/role", controller.SetRole).Methods("PUT")
	participantRouter.HandleFunc("/{participantId}/preference", controller.SetPreference).Methods("PUT")
	participantRouter.HandleFunc("/{participantId}/skills", controller.SetSkills).Methods("PUT")
}
