// Package api exposes the job store over HTTP: search and retrieval for
// readers, ingest and deactivation for authenticated scrapers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stackscout/stackscout/internal/salary"
	"github.com/stackscout/stackscout/internal/storage"
)

// Deps carries the handler's collaborators.
type Deps struct {
	Store *storage.Store
	Token string
}

// NewHandler builds the HTTP API. Read endpoints are open; ingest and
// deactivation require the bearer token.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/jobs", handleSearchJobs(deps))
	r.Get("/jobs/{id}", handleGetJob(deps))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/ingest", handleIngest(deps))
		r.Delete("/jobs/{id}", handleDeactivateJob(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleSearchJobs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := storage.Filters{
			Query:           q.Get("q"),
			Platform:        q.Get("platform"),
			IncludeInactive: q.Get("include_inactive") == "true",
			Limit:           parseIntParam(r, "limit", 50, 200),
			Offset:          parseIntParam(r, "offset", 0, 0),
		}

		if raw := q.Get("salary"); raw != "" {
			// The transport mangles '+' and space interchangeably in query
			// parameters, so spaces are folded back to '+' before parsing.
			// A filter that still fails to parse yields a nil predicate and
			// the search runs unfiltered rather than erroring.
			f.Salary = salary.BuildPredicate(strings.ReplaceAll(raw, " ", "+"))
		}

		jobs, err := deps.Store.SearchJobs(f)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to search jobs: %v", err)
			return
		}
		if jobs == nil {
			jobs = []storage.Job{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jobs)
	}
}

func handleGetJob(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		job, err := deps.Store.GetJob(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get job: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(job)
	}
}

func handleDeactivateJob(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeactivateJob(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to deactivate job: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deactivated"})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
