package service

import (
	"context"
	"fmt"

	"github.com/employee-records-api/internal/models"
	"github.com/employee-records-api/internal/repository"
	"github.com/employee-records-api/internal/validation"
	"github.com/rs/zerolog"
)

// employeeService is the concrete implementation of EmployeeService
type employeeService struct {
	repo repository.EmployeeRepository
	log  zerolog.Logger
}

func newEmployeeService(repo repository.EmployeeRepository, log zerolog.Logger) *employeeService {
	return &employeeService{
		repo: repo,
		log:  log.With().Str("service", "employee").Logger(),
	}
}

// NewEmployeeService creates an EmployeeService over the given repository
func NewEmployeeService(repo repository.EmployeeRepository, log zerolog.Logger) EmployeeService {
	return newEmployeeService(repo, log)
}

func (s *employeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *employeeService) Get(ctx context.Context, id int) (*models.Employee, error) {
	if err := validation.AsError(validation.ValidateID(id)); err != nil {
		return nil, err
	}
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, id)
	}
	return employee, nil
}

func (s *employeeService) Create(ctx context.Context, employee models.Employee) (int, error) {
	if err := validation.AsError(validation.ValidateEmployee(employee, false)); err != nil {
		return 0, err
	}
	employee.ID = 0
	id, err := s.repo.Create(ctx, &employee)
	if err != nil {
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}
	s.log.Debug().Int("id", id).Str("department", employee.Department).Msg("Employee created")
	return id, nil
}

func (s *employeeService) Update(ctx context.Context, id int, employee models.Employee) error {
	employee.ID = id
	if err := validation.AsError(validation.ValidateEmployee(employee, true)); err != nil {
		return err
	}
	found, err := s.repo.Update(ctx, &employee)
	if err != nil {
		return fmt.Errorf("failed to update employee %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrEmployeeNotFound, id)
	}
	s.log.Debug().Int("id", id).Msg("Employee updated")
	return nil
}

func (s *employeeService) Delete(ctx context.Context, id int) error {
	if err := validation.AsError(validation.ValidateID(id)); err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrEmployeeNotFound, id)
	}
	s.log.Debug().Int("id", id).Msg("Employee deleted")
	return nil
}

func (s *employeeService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
