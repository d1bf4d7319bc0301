package handlers

import (
	"net/http"

	"nfl-pool-go/models"
	"nfl-pool-go/scoring"
)

// EvaluateHandler runs the scoring core on caller-supplied data without
// touching storage
type EvaluateHandler struct {
	evaluator *scoring.Evaluator
	scorer    *scoring.Scorer
}

func NewEvaluateHandler(evaluator *scoring.Evaluator, scorer *scoring.Scorer) *EvaluateHandler {
	if evaluator == nil {
		evaluator = scoring.NewEvaluator(scoring.DefaultRules(), nil)
	}
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultRules(), nil)
	}
	return &EvaluateHandler{evaluator: evaluator, scorer: scorer}
}

// SurvivorRequest is the body of POST /api/evaluate/survivor
type SurvivorRequest struct {
	Picks       []models.Pick        `json:"picks"`
	Outcomes    []models.GameOutcome `json:"outcomes"`
	ThroughWeek int                  `json:"throughWeek"`
}

// ConfidenceRequest is the body of POST /api/evaluate/confidence
type ConfidenceRequest struct {
	Picks    []models.Pick        `json:"picks"`
	Outcomes []models.GameOutcome `json:"outcomes"`
}

// Survivor evaluates one participant's survivor picks
func (h *EvaluateHandler) Survivor(w http.ResponseWriter, r *http.Request) {
	var req SurvivorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ThroughWeek < 0 || req.ThroughWeek > models.MaxWeek {
		writeError(w, http.StatusBadRequest, "throughWeek must be between 0 and 18")
		return
	}

	writeJSON(w, http.StatusOK, h.evaluator.Evaluate(req.Picks, req.Outcomes, req.ThroughWeek))
}

// Confidence scores one participant's confidence picks for a week
func (h *EvaluateHandler) Confidence(w http.ResponseWriter, r *http.Request) {
	var req ConfidenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.scorer.ScoreWeek(req.Picks, req.Outcomes))
}
