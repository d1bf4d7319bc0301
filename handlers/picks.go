package handlers

import (
	"net/http"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/models"
)

// PickHandler records picks entered by pool operators
type PickHandler struct {
	picks interfaces.PickService
}

func NewPickHandler(picks interfaces.PickService) *PickHandler {
	return &PickHandler{picks: picks}
}

// PickRequest is the body of PUT /api/admin/seasons/{season}/picks
type PickRequest struct {
	Pool          models.PoolType `json:"pool"`
	ParticipantID string          `json:"participantId"`
	Week          int             `json:"week"`
	Team          string          `json:"team"`
	GameID        string          `json:"gameId,omitempty"`
	Confidence    int             `json:"confidence,omitempty"`
}

// ImportRequest is the body of POST /api/admin/seasons/{season}/picks/import
type ImportRequest struct {
	ParticipantID string `json:"participantId"`
	History       string `json:"history"`
}

// Submit stores one pick
func (h *PickHandler) Submit(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req PickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var pick *models.Pick
	switch req.Pool {
	case models.PoolSurvivor:
		pick, err = h.picks.SubmitSurvivorPick(r.Context(), season, req.Week, req.ParticipantID, req.Team)
	case models.PoolConfidence:
		pick, err = h.picks.SubmitConfidencePick(r.Context(), season, req.Week, req.ParticipantID, req.GameID, req.Team, req.Confidence)
	default:
		writeError(w, http.StatusBadRequest, "pool must be survivor or confidence")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pick)
}

// Import stores a comma-joined survivor history for one participant
func (h *PickHandler) Import(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	picks, err := h.picks.ImportSurvivorHistory(r.Context(), season, req.ParticipantID, req.History)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if picks == nil {
		picks = []models.Pick{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"imported": len(picks), "picks": picks})
}
