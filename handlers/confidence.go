package handlers

import (
	"net/http"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/models"
)

// ConfidenceHandler serves confidence-pool scores and standings
type ConfidenceHandler struct {
	confidence interfaces.ConfidenceService
}

func NewConfidenceHandler(confidence interfaces.ConfidenceService) *ConfidenceHandler {
	return &ConfidenceHandler{confidence: confidence}
}

// WeekResponse lists the scores of one week
type WeekResponse struct {
	Season int                  `json:"season"`
	Week   int                  `json:"week"`
	Scores []models.WeeklyScore `json:"scores"`
}

func (h *ConfidenceHandler) seasonWeek(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	week, err := pathInt(r, "week")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return season, week, true
}

func weekResponse(season, week int, scores []models.WeeklyScore) WeekResponse {
	if scores == nil {
		scores = []models.WeeklyScore{}
	}
	return WeekResponse{Season: season, Week: week, Scores: scores}
}

// Week handles GET /api/seasons/{season}/weeks/{week}/confidence
func (h *ConfidenceHandler) Week(w http.ResponseWriter, r *http.Request) {
	season, week, ok := h.seasonWeek(w, r)
	if !ok {
		return
	}

	scores, err := h.confidence.WeekScores(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse(season, week, scores))
}

// Recompute handles POST /api/admin/seasons/{season}/weeks/{week}/confidence/recompute
func (h *ConfidenceHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	season, week, ok := h.seasonWeek(w, r)
	if !ok {
		return
	}

	scores, err := h.confidence.RecomputeWeek(r.Context(), season, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse(season, week, scores))
}

// Standings handles GET /api/seasons/{season}/standings
func (h *ConfidenceHandler) Standings(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	standings, err := h.confidence.Standings(r.Context(), season)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if standings == nil {
		standings = []models.SeasonStanding{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"season": season, "standings": standings})
}
