package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/config"
	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Import file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FormatFromFilename maps an upload's extension onto an import format
func FormatFromFilename(name string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, ext)
	}
}

// importService is the concrete implementation of ImportService
type importService struct {
	employees EmployeeService
	jobRepo   repository.JobRepository
	cfg       config.ImportConfig
	gate      *importGate
	log       zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(employees EmployeeService, jobRepo repository.JobRepository, cfg config.ImportConfig, log zerolog.Logger) *importService {
	return &importService{
		employees: employees,
		jobRepo:   jobRepo,
		cfg:       cfg,
		gate:      newImportGate(),
		log:       log.With().Str("service", "import").Logger(),
	}
}

// NewImportService creates an ImportService dispatching to employees
func NewImportService(employees EmployeeService, jobRepo repository.JobRepository, cfg config.ImportConfig, log zerolog.Logger) ImportService {
	return newImportService(employees, jobRepo, cfg, log)
}

// InProgress reports whether an import currently holds the gate
func (s *importService) InProgress() bool {
	return s.gate.Busy()
}

// ImportFile runs an upload through the bulk pipeline and waits for it.
// It fails fast with ErrImportInProgress when another import is running.
func (s *importService) ImportFile(ctx context.Context, r io.Reader, format string) (*models.ImportSummary, error) {
	if !s.gate.TryAcquire() {
		return nil, ErrImportInProgress
	}
	defer s.gate.Release()

	start := time.Now()
	outcome, err := s.run(ctx, r, format)
	summary := toSummary(outcome)
	if err != nil && ctx.Err() == nil && !errors.Is(err, ErrUnsupportedFormat) {
		err = fmt.Errorf("%w: %w", ErrUnreadableUpload, err)
	}

	logEvent := s.log.Info()
	if err != nil {
		logEvent = s.log.Warn().Err(err)
	}
	logEvent.
		Str("format", format).
		Int("successful", outcome.Success).
		Int("failed", outcome.Failure).
		Int("skipped", outcome.Skipped).
		Dur("duration", time.Since(start)).
		Msg("Import finished")

	return summary, err
}

func (s *importService) run(ctx context.Context, r io.Reader, format string) (bulk.Outcome, error) {
	opts := bulk.Options{
		Concurrency: s.cfg.Concurrency,
		Logger:      &s.log,
	}
	switch format {
	case FormatCSV:
		return bulk.Import(ctx, r, s.employees, opts)
	case FormatXLSX:
		return bulk.ImportXLSX(ctx, r, s.employees, opts)
	default:
		return bulk.Outcome{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func toSummary(o bulk.Outcome) *models.ImportSummary {
	return &models.ImportSummary{
		Processed:  o.Processed(),
		Successful: o.Success,
		Failed:     o.Failure,
		Skipped:    o.Skipped,
		Message:    o.Summary(),
	}
}

// CreateImportJob creates a new import job
func (s *importService) CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error) {
	job := &models.Job{
		ID:             uuid.New().String(),
		Status:         models.JobStatusPending,
		Format:         req.Format,
		IdempotencyKey: req.IdempotencyKey,
		FilePath:       filePath,
		CreatedAt:      time.Now(),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("format", job.Format).
		Str("file", filePath).
		Msg("Import job created")

	return job, nil
}

// ProcessImport runs a stored upload. It waits for the gate rather than
// failing, so queued jobs run one after another. A job whose wait is cut
// short goes back to pending with its upload kept.
func (s *importService) ProcessImport(ctx context.Context, job *models.Job) error {
	// Final status writes must land even when ctx is cancelled
	saveCtx := context.WithoutCancel(ctx)

	if err := s.gate.Acquire(ctx); err != nil {
		job.Status = models.JobStatusPending
		job.StartedAt = nil
		s.saveJob(saveCtx, job)
		s.log.Warn().Err(err).Str("job_id", job.ID).Msg("Import job returned to queue")
		return err
	}
	defer s.gate.Release()

	startTime := time.Now()
	now := startTime
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now
	s.saveJob(saveCtx, job)

	s.log.Info().
		Str("job_id", job.ID).
		Str("format", job.Format).
		Msg("Starting import processing")

	outcome, err := s.processFile(ctx, job)

	job.ProcessedCount = outcome.Processed()
	job.SuccessfulCount = outcome.Success
	job.FailedCount = outcome.Failure
	job.SkippedCount = outcome.Skipped
	job.Message = outcome.Summary()

	// Calculate metrics
	duration := time.Since(startTime)
	job.DurationMs = duration.Milliseconds()
	if job.ProcessedCount > 0 && duration.Seconds() > 0 {
		job.RowsPerSec = float64(job.ProcessedCount) / duration.Seconds()
	}

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		job.Status = models.JobStatusCancelled
		s.log.Warn().Err(err).Str("job_id", job.ID).Int("processed", job.ProcessedCount).Msg("Import cancelled")
	case err != nil:
		job.Status = models.JobStatusFailed
		job.Message = err.Error()
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Import failed")
	default:
		job.Status = models.JobStatusCompleted
		s.log.Info().
			Str("job_id", job.ID).
			Int("processed", job.ProcessedCount).
			Int("successful", job.SuccessfulCount).
			Int("failed", job.FailedCount).
			Int64("duration_ms", job.DurationMs).
			Float64("rows_per_sec", job.RowsPerSec).
			Msg("Import completed")
	}

	s.saveJob(saveCtx, job)

	if rmErr := os.Remove(job.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
		s.log.Warn().Err(rmErr).Str("file", job.FilePath).Msg("Failed to remove upload")
	}

	return err
}

func (s *importService) processFile(ctx context.Context, job *models.Job) (bulk.Outcome, error) {
	file, err := os.Open(job.FilePath)
	if err != nil {
		return bulk.Outcome{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return s.run(ctx, file, job.Format)
}

func (s *importService) saveJob(ctx context.Context, job *models.Job) {
	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Str("status", string(job.Status)).Msg("Failed to save job")
	}
}
