// Package ui exposes the persisted outcome collections to the caller's
// reporting layer over a read-only HTTP API. No aggregation happens here:
// the caller derives its own summaries from the filtered outcomes.
package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dwiverify/domain/core"
	"dwiverify/domain/outcome"
	"dwiverify/ports"
)

// App represents the outcome query application
type App struct {
	router *chi.Mux
	repo   ports.OutcomeRepository
}

// NewApp creates the query API over an outcome repository.
func NewApp(repo ports.OutcomeRepository) *App {
	app := &App{
		router: chi.NewRouter(),
		repo:   repo,
	}
	app.routes()
	return app
}

func (a *App) routes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/health", a.handleHealth)
	a.router.Get("/runs", a.handleRuns)
	a.router.Get("/runs/{runID}/outcomes", a.handleOutcomes)
}

// Handler returns the HTTP handler for mounting or serving.
func (a *App) Handler() http.Handler {
	return a.router
}

// Serve starts the query API on the given port.
func (a *App) Serve(port string) error {
	log.Printf("[UI] Outcome query API listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.repo.Runs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (a *App) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	filter := outcome.Filter{
		SeriesID:    r.URL.Query().Get("series"),
		ConfigLabel: r.URL.Query().Get("config"),
		Kind:        outcome.Kind(r.URL.Query().Get("kind")),
	}
	if capStr := r.URL.Query().Get("capability"); capStr != "" {
		capNum, err := strconv.Atoi(capStr)
		if err != nil || capNum < 1 || capNum > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capability must be 1-5"})
			return
		}
		filter.Capability = outcome.Capability(capNum)
	}

	outcomes, err := a.repo.Outcomes(r.Context(), runID, filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if outcomes == nil {
		outcomes = []outcome.Outcome{}
	}
	writeJSON(w, http.StatusOK, outcomes)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[UI] Failed to encode response: %v", err)
	}
}
