package controllers

import (
	"encoding/json"
	"net/http"

	"pairup_server/models"
	"pairup_server/services"

	"github.com/gorilla/mux"
)

// ParticipantController handles HTTP requests for participant profiles
type ParticipantController struct {
	Participants *services.ParticipantService
}

func NewParticipantController(participants *services.ParticipantService) *ParticipantController {
	return &ParticipantController{Participants: participants}
}

// CreateParticipant registers a new profile
func (pc *ParticipantController) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var participant models.Participant
	if err := json.NewDecoder(r.Body).Decode(&participant); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := pc.Participants.AddParticipant(r.Context(), participant)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetParticipant fetches one profile
func (pc *ParticipantController) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	participant, err := pc.Participants.GetParticipant(r.Context(), participantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

// SetRole selects the participant's role
func (pc *ParticipantController) SetRole(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	var request struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Role == "" {
		http.Error(w, "role is required", http.StatusBadRequest)
		return
	}

	participant, err := pc.Participants.SetRole(r.Context(), participantID, request.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

// SetPreference stores the participant's matching preferences
func (pc *ParticipantController) SetPreference(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	var preference models.Preference
	if err := json.NewDecoder(r.Body).Decode(&preference); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	participant, err := pc.Participants.SetPreference(r.Context(), participantID, preference)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

// SetSkills replaces the participant's skill set
func (pc *ParticipantController) SetSkills(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]

	var request struct {
		Skills []string `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	participant, err := pc.Participants.SetSkills(r.Context(), participantID, request.Skills)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}
