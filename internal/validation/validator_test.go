package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/employee-records-api/internal/models"
)

func TestValidateEmployee(t *testing.T) {
	tests := []struct {
		name       string
		employee   models.Employee
		requireID  bool
		wantFields []string
	}{
		{
			name:     "valid new employee",
			employee: models.Employee{Name: "Ada", Department: "Engineering", Salary: 700000},
		},
		{
			name:      "valid update",
			employee:  models.Employee{ID: 3, Name: "Ada", Department: "Engineering", Salary: 700000},
			requireID: true,
		},
		{
			name:       "missing name",
			employee:   models.Employee{Department: "Engineering", Salary: 1},
			wantFields: []string{"name"},
		},
		{
			name:       "blank department",
			employee:   models.Employee{Name: "Ada", Department: "   ", Salary: 1},
			wantFields: []string{"department"},
		},
		{
			name:       "zero salary - import coercion lands here",
			employee:   models.Employee{Name: "Ada", Department: "IT"},
			wantFields: []string{"salary"},
		},
		{
			name:       "negative salary",
			employee:   models.Employee{Name: "Ada", Department: "IT", Salary: -5},
			wantFields: []string{"salary"},
		},
		{
			name:       "update without id",
			employee:   models.Employee{Name: "Ada", Department: "IT", Salary: 5},
			requireID:  true,
			wantFields: []string{"id"},
		},
		{
			name:       "everything wrong",
			employee:   models.Employee{ID: -1},
			requireID:  true,
			wantFields: []string{"id", "name", "department", "salary"},
		},
		{
			name:       "salary beyond the column range",
			employee:   models.Employee{Name: "Ada", Department: "IT", Salary: MaxSalary + 1},
			wantFields: []string{"salary"},
		},
		{
			name:     "largest storable salary",
			employee: models.Employee{Name: "Ada", Department: "IT", Salary: MaxSalary},
		},
		{
			name:       "name too long",
			employee:   models.Employee{Name: strings.Repeat("a", MaxTextLength+1), Department: "IT", Salary: 1},
			wantFields: []string{"name"},
		},
		{
			name:     "multibyte name at the limit",
			employee: models.Employee{Name: strings.Repeat("é", MaxTextLength), Department: "IT", Salary: 1},
		},
		{
			name:     "id ignored for creates",
			employee: models.Employee{ID: -1, Name: "Ada", Department: "IT", Salary: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateEmployee(tt.employee, tt.requireID)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors, want %d: %v", len(errs), len(tt.wantFields), errs)
			}
			got := Errors(errs).Fields()
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if errs := ValidateID(1); len(errs) != 0 {
		t.Errorf("id 1 should be valid, got %v", errs)
	}
	for _, id := range []int{0, -7} {
		if errs := ValidateID(id); len(errs) != 1 || errs[0].Field != "id" {
			t.Errorf("id %d: expected one id error, got %v", id, errs)
		}
	}
}

func TestAsError(t *testing.T) {
	if err := AsError(nil); err != nil {
		t.Errorf("empty list should be nil, got %v", err)
	}

	err := AsError(ValidateEmployee(models.Employee{}, false))
	if !errors.Is(err, ErrInvalidEmployee) {
		t.Fatalf("expected ErrInvalidEmployee, got %v", err)
	}
	if !errors.Is(fmt.Errorf("create: %w", err), ErrInvalidEmployee) {
		t.Error("wrapped errors should still match")
	}

	want := "name is required; department is required; salary must be greater than zero"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var verrs Errors
	if !errors.As(err, &verrs) || len(verrs) != 3 {
		t.Errorf("expected to unwrap 3 field errors, got %v", verrs)
	}
}
