package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/employee-records-api/internal/database"
	"github.com/employee-records-api/internal/models"
)

const jobColumns = `id, status, format, idempotency_key, processed_count, successful_count,
	failed_count, skipped_count, duration_ms, rows_per_sec, message, file_path,
	created_at, started_at, completed_at`

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new import job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO import_jobs (id, status, format, idempotency_key, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Status, job.Format, nullString(job.IdempotencyKey),
		nullString(job.FilePath), job.CreatedAt,
	)
	return translateError(err)
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE import_jobs SET
			status = $1, processed_count = $2, successful_count = $3, failed_count = $4,
			skipped_count = $5, duration_ms = $6, rows_per_sec = $7, message = $8,
			started_at = $9, completed_at = $10
		WHERE id = $11
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.ProcessedCount, job.SuccessfulCount, job.FailedCount,
		job.SkippedCount, job.DurationMs, job.RowsPerSec, nullString(job.Message),
		job.StartedAt, job.CompletedAt, job.ID,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM import_jobs WHERE id = $1`, id)
}

// GetByIdempotencyKey retrieves a job by idempotency key
func (r *jobRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return r.getOne(ctx, `SELECT `+jobColumns+` FROM import_jobs WHERE idempotency_key = $1`, key)
}

func (r *jobRepo) getOne(ctx context.Context, query string, arg any) (*models.Job, error) {
	var job models.Job
	var idempotencyKey, message, filePath sql.NullString
	var startedAt, completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&job.ID, &job.Status, &job.Format, &idempotencyKey,
		&job.ProcessedCount, &job.SuccessfulCount, &job.FailedCount, &job.SkippedCount,
		&job.DurationMs, &job.RowsPerSec, &message, &filePath,
		&job.CreatedAt, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.IdempotencyKey = idempotencyKey.String
	job.Message = message.String
	job.FilePath = filePath.String
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}

	return &job, nil
}

// GetPendingJobs retrieves all pending jobs, oldest first
func (r *jobRepo) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	query := `
		SELECT id, format, file_path, created_at
		FROM import_jobs WHERE status = 'pending'
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		var filePath sql.NullString
		if err := rows.Scan(&job.ID, &job.Format, &filePath, &job.CreatedAt); err != nil {
			return nil, err
		}
		job.FilePath = filePath.String
		job.Status = models.JobStatusPending
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

// MarkJobAsProcessing atomically marks a pending job as processing
func (r *jobRepo) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	query := `
		UPDATE import_jobs SET status = 'processing', started_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), jobID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
