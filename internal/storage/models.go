package storage

import (
	"errors"
	"time"

	"github.com/stackscout/stackscout/internal/salary"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Job is one scraped posting. The raw salary text is kept verbatim; the
// SalaryMin/SalaryMax/SalaryCurrency columns are written once at ingest by
// the normalizer. nil/nil/"" is the expected shape for postings whose
// salary text failed to parse.
type Job struct {
	ID             string    `json:"id"`
	Company        string    `json:"company"`
	Role           string    `json:"role"`
	TechStack      string    `json:"tech_stack,omitempty"`
	JobType        string    `json:"job_type,omitempty"`
	Salary         string    `json:"salary,omitempty"`
	SalaryMin      *int64    `json:"salary_min,omitempty"`
	SalaryMax      *int64    `json:"salary_max,omitempty"`
	SalaryCurrency string    `json:"salary_currency,omitempty"`
	Location       string    `json:"location,omitempty"`
	Description    string    `json:"description,omitempty"`
	SourcePlatform string    `json:"source_platform"`
	SourceURL      string    `json:"source_url"`
	IsActive       bool      `json:"is_active"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}

// Task is one queued unit of background work.
type Task struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// Filters narrows SearchJobs results. All fields are conjunctive; zero
// values disable the corresponding filter.
type Filters struct {
	Query           string
	Platform        string
	Salary          *salary.Predicate
	IncludeInactive bool
	Limit           int
	Offset          int
}
