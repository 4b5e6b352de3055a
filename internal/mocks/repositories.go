package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/repository"
)

// MockEmployeeRepository is an in-memory EmployeeRepository.
// It is safe for concurrent use.
type MockEmployeeRepository struct {
	mu        sync.Mutex
	Employees map[int]*models.Employee
	NextID    int

	CreateError error
	UpdateError error
	ListError   error
	CreateCalls int
	UpdateCalls int
}

// Verify interface compliance
var _ repository.EmployeeRepository = (*MockEmployeeRepository)(nil)

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		Employees: make(map[int]*models.Employee),
		NextID:    1,
	}
}

// Seed stores employees with their IDs as given
func (m *MockEmployeeRepository) Seed(employees ...models.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range employees {
		e := e
		m.Employees[e.ID] = &e
		if e.ID >= m.NextID {
			m.NextID = e.ID + 1
		}
	}
}

func (m *MockEmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}

	out := make([]models.Employee, 0, len(m.Employees))
	for _, e := range m.Employees {
		if filter.ID != nil && e.ID != *filter.ID {
			continue
		}
		if filter.Salary != nil && e.Salary != *filter.Salary {
			continue
		}
		if !containsFold(e.Name, filter.Name) || !containsFold(e.Department, filter.Department) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id int) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *models.Employee) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	e := *employee
	e.ID = m.NextID
	m.NextID++
	m.Employees[e.ID] = &e
	return e.ID, nil
}

func (m *MockEmployeeRepository) Update(ctx context.Context, employee *models.Employee) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	if _, ok := m.Employees[employee.ID]; !ok {
		return false, nil
	}
	e := *employee
	m.Employees[e.ID] = &e
	return true, nil
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Employees[id]; !ok {
		return false, nil
	}
	delete(m.Employees, id)
	return true, nil
}

func (m *MockEmployeeRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Employees), nil
}

// MockJobRepository is a mock implementation of JobRepository.
// Jobs are stored and returned as copies so workers never share memory
// with the test reading them.
type MockJobRepository struct {
	mu              sync.Mutex
	Jobs            map[string]*models.Job
	IdempotencyJobs map[string]*models.Job
	CreateError     error
	UpdateError     error
	Updates         []models.Job
}

// Verify interface compliance
var _ repository.JobRepository = (*MockJobRepository)(nil)

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs:            make(map[string]*models.Job),
		IdempotencyJobs: make(map[string]*models.Job),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := *job
	m.Jobs[job.ID] = &cp
	if job.IdempotencyKey != "" {
		m.IdempotencyJobs[job.IdempotencyKey] = &cp
	}
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	cp := *job
	m.Jobs[job.ID] = &cp
	m.Updates = append(m.Updates, cp)
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyJob(m.Jobs[id]), nil
}

func (m *MockJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.IdempotencyJobs[key]
	if !ok {
		return nil, nil
	}
	return copyJob(m.Jobs[job.ID]), nil
}

func (m *MockJobRepository) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*models.Job
	for _, job := range m.Jobs {
		if job.Status == models.JobStatusPending {
			pending = append(pending, copyJob(job))
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, exists := m.Jobs[jobID]
	if !exists || job.Status != models.JobStatusPending {
		return false, nil
	}
	job.Status = models.JobStatusProcessing
	return true, nil
}

// Job returns a copy of the stored job, safe to read while workers run
func (m *MockJobRepository) Job(id string) (models.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}

func copyJob(job *models.Job) *models.Job {
	if job == nil {
		return nil
	}
	cp := *job
	return &cp
}
