package handlers

import (
	"net/http"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/models"

	"github.com/gorilla/mux"
)

// SurvivorHandler serves survivor verdicts
type SurvivorHandler struct {
	survivor interfaces.SurvivorService
}

func NewSurvivorHandler(survivor interfaces.SurvivorService) *SurvivorHandler {
	return &SurvivorHandler{survivor: survivor}
}

// SurvivorSummary is the stored state of a season's survivor pool
type SurvivorSummary struct {
	Season     int                      `json:"season"`
	Alive      int                      `json:"alive"`
	Eliminated int                      `json:"eliminated"`
	Verdicts   []models.SurvivorVerdict `json:"verdicts"`
}

func summarize(season int, verdicts []models.SurvivorVerdict) SurvivorSummary {
	summary := SurvivorSummary{Season: season, Verdicts: verdicts}
	if summary.Verdicts == nil {
		summary.Verdicts = []models.SurvivorVerdict{}
	}
	for _, v := range verdicts {
		if v.IsAlive {
			summary.Alive++
		} else {
			summary.Eliminated++
		}
	}
	return summary
}

// List handles GET /api/seasons/{season}/survivor
func (h *SurvivorHandler) List(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdicts, err := h.survivor.Verdicts(r.Context(), season)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(season, verdicts))
}

// Participant handles GET /api/seasons/{season}/survivor/{participant}?through=N.
// The verdict is computed fresh and not stored.
func (h *SurvivorHandler) Participant(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	through, err := queryInt(r, "through", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict, err := h.survivor.EvaluateParticipant(r.Context(), season, mux.Vars(r)["participant"], through)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

// Recompute handles POST /api/admin/seasons/{season}/survivor/recompute?through=N
func (h *SurvivorHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	season, err := pathInt(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	through, err := queryInt(r, "through", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdicts, err := h.survivor.RecomputeSeason(r.Context(), season, through)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(season, verdicts))
}
