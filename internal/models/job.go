package models

import (
	"time"
)

// JobStatus represents the status of an import job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Job represents an asynchronous employee import
type Job struct {
	ID              string     `json:"job_id" db:"id"`
	Status          JobStatus  `json:"status" db:"status"`
	Format          string     `json:"format" db:"format"`
	IdempotencyKey  string     `json:"idempotency_key,omitempty" db:"idempotency_key"`
	ProcessedCount  int        `json:"processed" db:"processed_count"`
	SuccessfulCount int        `json:"successful" db:"successful_count"`
	FailedCount     int        `json:"failed" db:"failed_count"`
	SkippedCount    int        `json:"skipped" db:"skipped_count"`
	DurationMs      int64      `json:"duration_ms,omitempty" db:"duration_ms"`
	RowsPerSec      float64    `json:"rows_per_sec,omitempty" db:"rows_per_sec"`
	Message         string     `json:"message,omitempty" db:"message"`
	FilePath        string     `json:"-" db:"file_path"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ImportRequest represents an async import job request
type ImportRequest struct {
	Format         string `json:"format"` // csv, xlsx
	IdempotencyKey string `json:"-"`      // From header
}
