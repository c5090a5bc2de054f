package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pairup_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for matchmaking and match lifecycle
type MatchController struct {
	Matchmaking *services.MatchmakingService
	Lifecycle   *services.LifecycleService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchmaking *services.MatchmakingService, lifecycle *services.LifecycleService) *MatchController {
	return &MatchController{Matchmaking: matchmaking, Lifecycle: lifecycle}
}

// RequestMatch pairs the caller with a waiting partner or queues them
func (mc *MatchController) RequestMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantID string `json:"participantId"`
		Topic         string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	outcome, err := mc.Matchmaking.RequestMatch(r.Context(), request.ParticipantID, request.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// CancelWaiting removes the caller from the queue
func (mc *MatchController) CancelWaiting(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	if err := mc.Matchmaking.CancelWaiting(r.Context(), request.ParticipantID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Waiting cancelled"})
}

// QueueStatus reports the caller's current queue position without touching it
func (mc *MatchController) QueueStatus(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participantId")
	if participantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	state, err := mc.Matchmaking.QueueStatus(r.Context(), participantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Complete transitions an active match to completed
func (mc *MatchController) Complete(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		ParticipantID string `json:"participantId"`
		RepoURL       string `json:"repoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	result, err := mc.Lifecycle.Complete(r.Context(), matchID, request.ParticipantID, request.RepoURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetMatch fetches one match with its participants and assignment
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	detail, err := mc.Lifecycle.GetMatch(r.Context(), matchID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// writeJSON sends a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps domain errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrParticipantNotFound), errors.Is(err, services.ErrMatchNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrInvalidDifficulty):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrRoleNotSelected), errors.Is(err, services.ErrAlreadyMatched),
		errors.Is(err, services.ErrMatchNotActive), errors.Is(err, services.ErrRoleChangeWhileQueued):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrNotMatchParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
