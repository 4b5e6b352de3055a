package mocks

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/service"
)

// MockEmployeeService is a mock implementation of EmployeeService.
// Unset funcs fall back to Repo.
type MockEmployeeService struct {
	Repo       *MockEmployeeRepository
	CreateFunc func(ctx context.Context, employee models.Employee) (int, error)
	UpdateFunc func(ctx context.Context, id int, employee models.Employee) error
	DeleteFunc func(ctx context.Context, id int) error
	ListFunc   func(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
}

// Verify interface compliance
var _ service.EmployeeService = (*MockEmployeeService)(nil)

func NewMockEmployeeService() *MockEmployeeService {
	return &MockEmployeeService{Repo: NewMockEmployeeRepository()}
}

func (m *MockEmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return m.Repo.List(ctx, filter)
}

func (m *MockEmployeeService) Get(ctx context.Context, id int) (*models.Employee, error) {
	e, _ := m.Repo.GetByID(ctx, id)
	if e == nil {
		return nil, service.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *MockEmployeeService) Create(ctx context.Context, employee models.Employee) (int, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, employee)
	}
	return m.Repo.Create(ctx, &employee)
}

func (m *MockEmployeeService) Update(ctx context.Context, id int, employee models.Employee) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, employee)
	}
	employee.ID = id
	if ok, _ := m.Repo.Update(ctx, &employee); !ok {
		return service.ErrEmployeeNotFound
	}
	return nil
}

func (m *MockEmployeeService) Delete(ctx context.Context, id int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	if ok, _ := m.Repo.Delete(ctx, id); !ok {
		return service.ErrEmployeeNotFound
	}
	return nil
}

func (m *MockEmployeeService) Count(ctx context.Context) (int, error) {
	return m.Repo.Count(ctx)
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	mu            sync.Mutex
	ImportFunc    func(ctx context.Context, r io.Reader, format string) (*models.ImportSummary, error)
	CreateJobFunc func(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error)
	ProcessFunc   func(ctx context.Context, job *models.Job) error
	Busy          bool
	ImportedData  []string
	ProcessedJobs []*models.Job
	CreatedJobs   []*models.Job
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func NewMockImportService() *MockImportService {
	return &MockImportService{
		ProcessedJobs: make([]*models.Job, 0),
		CreatedJobs:   make([]*models.Job, 0),
	}
}

func (m *MockImportService) ImportFile(ctx context.Context, r io.Reader, format string) (*models.ImportSummary, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, r, format)
	}
	if m.Busy {
		return nil, service.ErrImportInProgress
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.ImportedData = append(m.ImportedData, string(data))
	m.mu.Unlock()
	return &models.ImportSummary{Message: "Processed 0 records: 0 successful, 0 failed"}, nil
}

func (m *MockImportService) CreateImportJob(ctx context.Context, req *models.ImportRequest, filePath string) (*models.Job, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, req, filePath)
	}
	job := &models.Job{
		ID:             "test-job-id",
		Format:         req.Format,
		IdempotencyKey: req.IdempotencyKey,
		Status:         models.JobStatusPending,
		FilePath:       filePath,
	}
	m.mu.Lock()
	m.CreatedJobs = append(m.CreatedJobs, job)
	m.mu.Unlock()
	return job, nil
}

func (m *MockImportService) ProcessImport(ctx context.Context, job *models.Job) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, job)
	}
	m.mu.Lock()
	m.ProcessedJobs = append(m.ProcessedJobs, job)
	m.mu.Unlock()
	job.Status = models.JobStatusCompleted
	return nil
}

func (m *MockImportService) InProgress() bool {
	return m.Busy
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	ExportFunc   func(ctx context.Context, w http.ResponseWriter, format string, filter models.EmployeeFilter) error
	TemplateFunc func(w http.ResponseWriter, format string) error
	Count        int
	LastFilter   models.EmployeeFilter
	LastFormat   string
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) Export(ctx context.Context, w http.ResponseWriter, format string, filter models.EmployeeFilter) error {
	m.LastFilter = filter
	m.LastFormat = format
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, w, format, filter)
	}
	return nil
}

func (m *MockExportService) Template(w http.ResponseWriter, format string) error {
	m.LastFormat = format
	if m.TemplateFunc != nil {
		return m.TemplateFunc(w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context) (int, error) {
	return m.Count, nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	Jobs          map[string]*models.Job
	ImportService service.ImportService
}

// Verify interface compliance
var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{
		Jobs: make(map[string]*models.Job),
	}
}

func (m *MockJobService) StartProcessor(ctx context.Context) {}

func (m *MockJobService) StopProcessor() {}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return m.Jobs[id], nil
}

func (m *MockJobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	for _, job := range m.Jobs {
		if job.IdempotencyKey == key {
			return job, nil
		}
	}
	return nil, nil
}

func (m *MockJobService) SetImportService(importService service.ImportService) {
	m.ImportService = importService
}
