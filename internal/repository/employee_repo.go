package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/employee-records-api/internal/database"
	"github.com/employee-records-api/internal/models"
)

// employeeRepo is the concrete implementation of EmployeeRepository
type employeeRepo struct {
	db *database.DB
}

// NewEmployeeRepo creates a new employee repository
func NewEmployeeRepo(db *database.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

// buildListQuery returns the filtered listing query and its arguments.
// id and salary match exactly; name and department are case-insensitive
// substring matches.
func buildListQuery(filter models.EmployeeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ID != nil {
		add("id = $%d", *filter.ID)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		add("name ILIKE $%d", "%"+escapeLike(name)+"%")
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		add("department ILIKE $%d", "%"+escapeLike(dept)+"%")
	}
	if filter.Salary != nil {
		add("salary = $%d", *filter.Salary)
	}

	query := "SELECT id, name, department, salary FROM employees"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List retrieves employees matching the filter
func (r *employeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.Salary); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByID retrieves an employee by ID
func (r *employeeRepo) GetByID(ctx context.Context, id int) (*models.Employee, error) {
	query := `SELECT id, name, department, salary FROM employees WHERE id = $1`

	var e models.Employee
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Name, &e.Department, &e.Salary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new employee and returns its ID
func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) (int, error) {
	query := `
		INSERT INTO employees (name, department, salary)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int
	err := r.db.QueryRowContext(ctx, query, employee.Name, employee.Department, employee.Salary).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// Update overwrites an employee; false means no row had the ID
func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) (bool, error) {
	query := `
		UPDATE employees SET
			name = $1, department = $2, salary = $3, updated_at = NOW()
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, employee.Name, employee.Department, employee.Salary, employee.ID)
	if err != nil {
		return false, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes an employee; false means no row had the ID
func (r *employeeRepo) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the total number of employees
func (r *employeeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&count)
	return count, err
}
