package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/stackscout/stackscout/internal/ingest"
	"github.com/stackscout/stackscout/internal/storage"
)

const maxIngestBodySize = 10 << 20 // 10MB

func handleIngest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxIngestBodySize)
		defer r.Body.Close()

		var postings []ingest.Posting
		if err := json.NewDecoder(r.Body).Decode(&postings); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(postings) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "at least one posting is required")
			return
		}
		for i, p := range postings {
			if p.SourceURL == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "posting %d: source_url is required", i)
				return
			}
			if p.SourcePlatform == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "posting %d: source_platform is required", i)
				return
			}
		}

		// Raw salary text travels into the queue untouched; normalization
		// happens in the worker when the record is stored.
		payload, err := json.Marshal(postings)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create task payload: %v", err)
			return
		}
		task := storage.Task{
			ID:          uuid.New().String(),
			Type:        "ingest_batch",
			PayloadJSON: string(payload),
		}
		if err := deps.Store.EnqueueTask(task); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to enqueue task: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"task_id": task.ID,
			"status":  "queued",
			"count":   len(postings),
		})
	}
}
