package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stackscout/stackscout/internal/salary"
	"github.com/stackscout/stackscout/internal/storage"
)

// TaskStore abstracts the task queue operations.
type TaskStore interface {
	ClaimNextTask(types []string) (*storage.Task, error)
	CompleteTask(id string) error
	FailTask(id string, errMsg string) error
}

// JobWriter persists normalized job records.
type JobWriter interface {
	UpsertJob(job storage.Job) error
}

// Worker processes ingest_batch tasks from the SQLite task queue: it
// normalizes each posting's salary text and upserts the record.
type Worker struct {
	tasks  TaskStore
	jobs   JobWriter
	poll   time.Duration
	logger *slog.Logger
}

// NewWorker creates a Worker with the given dependencies.
// If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(tasks TaskStore, jobs JobWriter, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		tasks:  tasks,
		jobs:   jobs,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls for tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single ingest_batch task.
// Returns true if a task was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	task, err := w.tasks.ClaimNextTask([]string{"ingest_batch"})
	if err != nil {
		return false, fmt.Errorf("claiming task: %w", err)
	}
	if task == nil {
		return false, nil
	}

	if err := w.processTask(ctx, task); err != nil {
		w.logger.Warn("task failed", "task_id", task.ID, "error", err)
		if failErr := w.tasks.FailTask(task.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark task as failed", "task_id", task.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.tasks.CompleteTask(task.ID); err != nil {
		return true, fmt.Errorf("completing task %s: %w", task.ID, err)
	}
	return true, nil
}

func (w *Worker) processTask(ctx context.Context, task *storage.Task) error {
	var postings []Posting
	if err := json.Unmarshal([]byte(task.PayloadJSON), &postings); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	stored := 0
	for i, p := range postings {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// A posting missing its identity fields is skipped, not fatal to
		// the batch; everything else about it is best-effort.
		if p.SourceURL == "" || p.SourcePlatform == "" {
			w.logger.Warn("skipping posting without source identity",
				"task_id", task.ID, "index", i, "company", p.Company)
			continue
		}

		if err := w.jobs.UpsertJob(buildJob(p)); err != nil {
			return fmt.Errorf("storing posting %s: %w", p.SourceURL, err)
		}
		stored++
	}

	w.logger.Info("ingest batch stored", "task_id", task.ID, "postings", len(postings), "stored", stored)
	return nil
}

// buildJob normalizes one posting into a storable record. Salary parsing is
// strictly best-effort: a malformed salary string never blocks the rest of
// the record, it just leaves the numeric columns unset.
func buildJob(p Posting) storage.Job {
	norm := salary.ForStorage(p.Salary)
	now := time.Now().UTC()
	return storage.Job{
		ID:             uuid.New().String(),
		Company:        strings.TrimSpace(p.Company),
		Role:           strings.TrimSpace(p.Role),
		TechStack:      strings.TrimSpace(p.TechStack),
		JobType:        strings.TrimSpace(p.JobType),
		Salary:         strings.TrimSpace(p.Salary),
		SalaryMin:      norm.Min,
		SalaryMax:      norm.Max,
		SalaryCurrency: norm.Currency.String(),
		Location:       strings.TrimSpace(p.Location),
		Description:    htmlToText(p.Description),
		SourcePlatform: p.SourcePlatform,
		SourceURL:      p.SourceURL,
		IsActive:       true,
		FirstSeenAt:    now,
		LastSeenAt:     now,
	}
}
