package handlers

import (
	"net/http"

	"nfl-pool-go/metrics"
	"nfl-pool-go/middleware"

	"github.com/gorilla/mux"
)

// Router bundles everything NewRouter wires together
type Router struct {
	Auth        *AuthHandler
	Survivor    *SurvivorHandler
	Confidence  *ConfidenceHandler
	Evaluate    *EvaluateHandler
	Picks       *PickHandler
	Health      *HealthHandler
	AuthMW      *middleware.AuthMiddleware
	Metrics     *metrics.Manager
	BehindProxy bool
}

// NewRouter builds the HTTP routes. Admin routes require an admin token.
func NewRouter(rt Router) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityMiddleware(rt.BehindProxy))
	r.Use(middleware.Instrument(rt.Metrics))

	r.HandleFunc("/health", rt.Health.Health).Methods(http.MethodGet)
	if rt.Metrics != nil {
		r.Handle("/metrics", rt.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", rt.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", rt.Auth.Logout).Methods(http.MethodPost)
	api.Handle("/me", rt.AuthMW.RequireAuth(http.HandlerFunc(rt.Auth.Me))).Methods(http.MethodGet)
	api.HandleFunc("/teams", Teams).Methods(http.MethodGet)

	api.HandleFunc("/seasons/{season:[0-9]+}/survivor", rt.Survivor.List).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{season:[0-9]+}/survivor/{participant}", rt.Survivor.Participant).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{season:[0-9]+}/weeks/{week:[0-9]+}/confidence", rt.Confidence.Week).Methods(http.MethodGet)
	api.HandleFunc("/seasons/{season:[0-9]+}/standings", rt.Confidence.Standings).Methods(http.MethodGet)

	api.HandleFunc("/evaluate/survivor", rt.Evaluate.Survivor).Methods(http.MethodPost)
	api.HandleFunc("/evaluate/confidence", rt.Evaluate.Confidence).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(rt.AuthMW.RequireAdmin)
	admin.HandleFunc("/seasons/{season:[0-9]+}/survivor/recompute", rt.Survivor.Recompute).Methods(http.MethodPost)
	admin.HandleFunc("/seasons/{season:[0-9]+}/weeks/{week:[0-9]+}/confidence/recompute", rt.Confidence.Recompute).Methods(http.MethodPost)
	admin.HandleFunc("/seasons/{season:[0-9]+}/picks", rt.Picks.Submit).Methods(http.MethodPut)
	admin.HandleFunc("/seasons/{season:[0-9]+}/picks/import", rt.Picks.Import).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}
