package service

import (
	"context"
	"sync"
	"time"

	"github.com/employee-records-api/internal/config"
	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/repository"
	"github.com/rs/zerolog"
)

// jobService is the concrete implementation of JobService
type jobService struct {
	jobRepo       repository.JobRepository
	importService ImportService
	interval      time.Duration
	log           zerolog.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	running       bool
	done          chan struct{} // closed when the poll loop exits
	mu            sync.Mutex
	// Semaphore: buffered channel to limit concurrent job processing
	sem chan struct{}
}

// newJobService creates a new JobService. Imports are serialised by the
// import gate, so workers above one only queue jobs behind it.
func newJobService(jobRepo repository.JobRepository, cfg config.ImportConfig, log zerolog.Logger) *jobService {
	workers := cfg.AsyncWorkers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	log.Info().Int("max_workers", workers).Dur("poll_interval", interval).Msg("Initializing import job processor")

	return &jobService{
		jobRepo:  jobRepo,
		interval: interval,
		log:      log.With().Str("service", "job").Logger(),
		sem:      make(chan struct{}, workers),
	}
}

// NewJobService creates a JobService polling jobRepo for pending imports
func NewJobService(jobRepo repository.JobRepository, cfg config.ImportConfig, log zerolog.Logger) JobService {
	return newJobService(jobRepo, cfg, log)
}

// SetImportService sets the import service for job processing
func (s *jobService) SetImportService(importService ImportService) {
	s.importService = importService
}

// StartProcessor polls for pending jobs until ctx is done or StopProcessor is called
func (s *jobService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	defer close(done)

	s.log.Info().Msg("Job processor started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Job processor stopping")
			return
		case <-ticker.C:
			s.processPendingJobs()
		}
	}
}

// StopProcessor cancels running jobs and waits for them to save their status
func (s *jobService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Job processor stopped")
}

// processPendingJobs processes all pending jobs
func (s *jobService) processPendingJobs() {
	jobs, err := s.jobRepo.GetPendingJobs(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get pending jobs")
		return
	}

	for _, job := range jobs {
		// Acquire semaphore slot - blocks if all workers are busy (backpressure)
		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		if s.ctx.Err() != nil {
			<-s.sem
			return
		}

		// Mark as processing atomically
		marked, err := s.jobRepo.MarkJobAsProcessing(s.ctx, job.ID)
		if err != nil || !marked {
			<-s.sem  // Release slot since we're not processing this job
			continue // Another worker already picked it up
		}

		s.wg.Add(1)
		go func(j *models.Job) {
			defer s.wg.Done()
			defer func() { <-s.sem }()

			defer func() {
				if r := recover(); r != nil {
					s.log.Error().
						Interface("panic", r).
						Str("job_id", j.ID).
						Msg("Job processing panicked - recovered")
					j.Status = models.JobStatusFailed
					s.jobRepo.Update(context.WithoutCancel(s.ctx), j)
				}
			}()
			s.processJob(j)
		}(job)
	}
}

// processJob processes a single job
func (s *jobService) processJob(job *models.Job) {
	select {
	case <-s.ctx.Done():
		s.log.Warn().Str("job_id", job.ID).Msg("Job processing cancelled due to shutdown")
		s.release(job, models.JobStatusPending)
		return
	default:
	}

	if s.importService == nil {
		s.log.Error().Str("job_id", job.ID).Msg("No import service configured")
		s.release(job, models.JobStatusFailed)
		return
	}

	s.log.Info().Str("job_id", job.ID).Str("format", job.Format).Msg("Processing job")
	if err := s.importService.ProcessImport(s.ctx, job); err != nil {
		if s.ctx.Err() != nil {
			s.log.Warn().Err(err).Str("job_id", job.ID).Msg("Import interrupted by shutdown")
			return
		}
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Import processing failed")
	}
}

// release records a claimed job that never ran. Pending puts it back in
// the queue for the next processor run.
func (s *jobService) release(job *models.Job, status models.JobStatus) {
	job.Status = status
	if status == models.JobStatusPending {
		job.StartedAt = nil
	}
	if err := s.jobRepo.Update(context.WithoutCancel(s.ctx), job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Str("status", string(status)).Msg("Failed to release job")
	}
}

// GetJob retrieves a job by ID; nil means no such job
func (s *jobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// GetJobByIdempotencyKey retrieves a job by idempotency key
func (s *jobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return s.jobRepo.GetByIdempotencyKey(ctx, key)
}
