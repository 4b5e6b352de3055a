package service

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/config"
	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/repository"
	"github.com/rs/zerolog"
)

var (
	// ErrEmployeeNotFound is returned when no employee has the requested id
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrImportInProgress is returned when another import holds the gate
	ErrImportInProgress = errors.New("an import is already in progress")
	// ErrUnsupportedFormat is returned for unknown import/export formats
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnreadableUpload is returned when an import file cannot be parsed
	ErrUnreadableUpload = errors.New("unreadable upload")
)

// EmployeeService defines the CRUD operations on employees.
// It is also the Dispatcher used by imports.
type EmployeeService interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	Get(ctx context.Context, id int) (*models.Employee, error)
	Create(ctx context.Context, employee models.Employee) (int, error)
	Update(ctx context.Context, id int, employee models.Employee) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

var _ bulk.Dispatcher = EmployeeService(nil)

// ImportService defines the interface for import operations
type ImportService interface {
	ImportFile(ctx context.Context, r io.Reader, format string) (*models.ImportSummary, error)
	CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error)
	ProcessImport(ctx context.Context, job *models.Job) error
	InProgress() bool
}

// ExportService defines the interface for export operations
type ExportService interface {
	Export(ctx context.Context, w http.ResponseWriter, format string, filter models.EmployeeFilter) error
	Template(w http.ResponseWriter, format string) error
	GetCount(ctx context.Context) (int, error)
}

// JobService defines the interface for job management
type JobService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	GetJob(ctx context.Context, id string) (*models.Job, error)
	GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	SetImportService(importService ImportService)
}

// Services holds all service interfaces
type Services struct {
	Employee EmployeeService
	Import   ImportService
	Export   ExportService
	Job      JobService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	employeeSvc := newEmployeeService(repos.Employee, log)
	jobSvc := newJobService(repos.Job, cfg.Import, log)
	importSvc := newImportService(employeeSvc, repos.Job, cfg.Import, log)
	exportSvc := newExportService(employeeSvc, log)

	// Wire up job processor to import service
	jobSvc.SetImportService(importSvc)

	return &Services{
		Employee: employeeSvc,
		Import:   importSvc,
		Export:   exportSvc,
		Job:      jobSvc,
	}
}
