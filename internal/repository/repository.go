package repository

import (
	"context"
	"errors"

	"github.com/employee-records-api/internal/database"
	"github.com/employee-records-api/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrConstraintViolation is returned when the database rejects a row
	// through a CHECK or NOT NULL constraint
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrDuplicateKey is returned on a unique index conflict
	ErrDuplicateKey = errors.New("duplicate key")
)

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	GetByID(ctx context.Context, id int) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) (int, error)
	Update(ctx context.Context, employee *models.Employee) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

// JobRepository defines the interface for import job operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetPendingJobs(ctx context.Context) ([]*models.Job, error)
	MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Employee EmployeeRepository
	Job      JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Employee: NewEmployeeRepo(db),
		Job:      NewJobRepo(db),
	}
}

// translateError maps PostgreSQL error codes onto repository sentinels
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "check_violation", "not_null_violation", "numeric_value_out_of_range", "string_data_right_truncation":
		return errors.Join(ErrConstraintViolation, err)
	case "unique_violation":
		return errors.Join(ErrDuplicateKey, err)
	default:
		return err
	}
}
